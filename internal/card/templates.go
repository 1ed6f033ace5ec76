package card

const cardShell = `width:100%;min-width:250px;max-width:550px;margin:1.5rem auto;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;`

const successTemplate = `<div style="` + cardShell + `color:{{.Palette.Text}};background:{{.Palette.Bg}};border:1px solid {{.Palette.Border}};border-radius:12px;overflow:hidden">
<article style="padding:12px 16px">
<header style="display:flex;padding-bottom:12px;line-height:20px;font-size:15px">
<a href="{{.ProfileURL}}" target="_blank" rel="noopener noreferrer" style="position:relative;height:48px;width:48px;flex-shrink:0">
<div style="height:100%;width:100%;position:absolute;overflow:hidden;border-radius:9999px">
<img src="{{.AvatarURL}}" alt="{{.Name}}" width="48" height="48" style="width:100%;height:100%"/>
</div>
</a>
<div style="display:flex;flex-direction:column;justify-content:center;margin:0 8px;max-width:calc(100% - 84px)">
<a href="{{.ProfileURL}}" target="_blank" rel="noopener noreferrer" style="text-decoration:none;color:inherit;display:flex;align-items:center">
<span style="font-weight:700;overflow:hidden;text-overflow:ellipsis;white-space:nowrap">{{.Name}}</span>{{if .Verified}}{{icon "verified"}}{{end}}
</a>
<a href="{{.ProfileURL}}" target="_blank" rel="noopener noreferrer" style="color:{{.Palette.TextSecondary}};text-decoration:none">
<span>@{{.ScreenName}}</span>
</a>
</div>
<a href="{{.TweetURL}}" target="_blank" rel="noopener noreferrer" style="margin-left:auto;color:{{.Palette.Text}}" aria-label="View on X">
{{icon "x"}}
</a>
</header>
<div style="font-size:1.25rem;font-weight:400;line-height:1.5rem;overflow-wrap:break-word;white-space:pre-wrap">{{.Body}}</div>
{{if .Photos}}<div style="{{if .PhotoGrid}}display:grid;grid-template-columns:1fr 1fr;gap:2px;{{end}}margin-top:12px;border-radius:12px;overflow:hidden;border:1px solid {{.Palette.Border}}">{{range .Photos}}<img src="{{.}}" alt="" loading="lazy" style="width:100%;height:auto;display:block;object-fit:cover"/>{{end}}</div>{{end}}
<div style="display:flex;align-items:center;color:{{.Palette.TextSecondary}};margin-top:4px">
<a href="{{.TweetURL}}" target="_blank" rel="noopener noreferrer" style="color:inherit;text-decoration:none;font-size:15px;line-height:20px">
<time datetime="{{.CreatedAt}}">{{.Timestamp}}</time>
</a>
</div>
<div style="display:flex;align-items:center;color:{{.Palette.TextSecondary}};padding-top:4px;margin-top:4px;border-top:1px solid {{.Palette.Border}};font-size:14px;font-weight:700">
<a href="{{.LikeURL}}" target="_blank" rel="noopener noreferrer" style="text-decoration:none;color:inherit;display:flex;align-items:center;margin-right:20px">
<div style="color:{{.Palette.Red}};display:flex;align-items:center;justify-content:center;width:calc(1.25em + 12px);height:calc(1.25em + 12px);margin-left:-4px;border-radius:9999px">{{icon "like"}}</div>
<span style="margin-left:4px">{{.Likes}}</span>
</a>
<a href="{{.ReplyURL}}" target="_blank" rel="noopener noreferrer" style="text-decoration:none;color:inherit;display:flex;align-items:center">
<div style="color:{{.Palette.Blue}};display:flex;align-items:center;justify-content:center;width:calc(1.25em + 12px);height:calc(1.25em + 12px);margin-left:-4px;border-radius:9999px">{{icon "reply"}}</div>
<span style="margin-left:4px">Reply</span>
</a>
</div>
<div style="padding:4px 0">
<a href="{{.TweetURL}}" target="_blank" rel="noopener noreferrer" style="text-decoration:none;color:{{.Palette.Link}};display:flex;align-items:center;justify-content:center;min-height:32px;padding:0 16px;border:1px solid {{.Palette.Border}};border-radius:9999px;font-weight:700;font-size:15px;line-height:20px">
Read more on X
</a>
</div>
</article>
</div>`

const fallbackTemplate = `<div style="` + cardShell + `color:{{.Palette.Text}};background:{{.Palette.Bg}};border:1px solid {{.Palette.Border}};border-radius:12px;overflow:hidden">
<article style="padding:12px 16px;text-align:center">
<p style="margin:0 0 12px;color:{{.Palette.TextSecondary}}">This tweet is unavailable</p>
<a href="{{.TweetURL}}" target="_blank" rel="noopener noreferrer" style="color:{{.Palette.Link}};text-decoration:none;font-weight:500">View on X →</a>
</article>
</div>`

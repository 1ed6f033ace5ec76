// Package markdown hosts the embed pipeline for Markdown content: frontmatter
// extraction, goldmark rendering, tweet marker expansion on the resulting
// HTML tree, and filesystem discovery for whole content directories.
package markdown

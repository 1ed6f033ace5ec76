package tweets

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-tweetembed/pkg/interfaces"
)

const tombstoneTypeName = "TweetTombstone"

//go:embed schema/tweet_result.json
var tweetResultSchema []byte

var loadPayloadSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("tweet_result.json", bytes.NewReader(tweetResultSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("tweet_result.json")
})

// decodePayload turns a 2xx body into a record. A tombstone is reported with
// ErrTombstone before schema validation since it carries none of the record
// fields.
func decodePayload(body []byte) (*interfaces.Record, error) {
	var raw any
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}

	if doc, ok := raw.(map[string]any); ok {
		if typeName, _ := doc["__typename"].(string); typeName == tombstoneTypeName {
			return nil, ErrTombstone
		}
	}

	schema, err := loadPayloadSchema()
	if err != nil {
		return nil, fmt.Errorf("%w: schema: %v", ErrPayloadInvalid, err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPayloadInvalid, describeValidation(err))
	}

	var rec interfaces.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	return &rec, nil
}

func describeValidation(err error) string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) || validationErr == nil {
		return err.Error()
	}
	var parts []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "/"
			}
			parts = append(parts, location+": "+node.Message)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return strings.Join(parts, "; ")
}

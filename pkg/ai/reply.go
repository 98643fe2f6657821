package ai

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoJSON is returned when a reply does not contain a JSON object in any form we accept.
var ErrNoJSON = errors.New("no JSON object found in reply")

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)\\n?```")

// ParseJSONReply finds the JSON object in a model reply. Models return raw JSON, JSON in a
// fenced code block, or JSON surrounded by prose; each is tried in that order.
func ParseJSONReply(reply string) (gjson.Result, error) {
	for _, candidate := range replyCandidates(reply) {
		if !gjson.Valid(candidate) {
			continue
		}
		if result := gjson.Parse(candidate); result.IsObject() {
			return result, nil
		}
	}
	return gjson.Result{}, ErrNoJSON
}

func replyCandidates(reply string) []string {
	reply = strings.TrimSpace(reply)
	candidates := []string{reply}
	if m := fencedBlock.FindStringSubmatch(reply); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start >= 0 && end > start {
		candidates = append(candidates, reply[start:end+1])
	}
	return candidates
}

// stringField returns a trimmed, non-empty string, or nil. Models sometimes spell null as
// a string.
func stringField(r gjson.Result, key string) *string {
	v := r.Get(key)
	if v.Type != gjson.String {
		return nil
	}
	s := strings.TrimSpace(v.String())
	switch strings.ToLower(s) {
	case "", "null", "none", "n/a", "unknown":
		return nil
	}
	return &s
}

// intField accepts numbers and numeric strings.
func intField(r gjson.Result, key string) *int {
	v := r.Get(key)
	switch v.Type {
	case gjson.Number:
		i := int(v.Int())
		return &i
	case gjson.String:
		if i, err := strconv.Atoi(strings.TrimSpace(v.String())); err == nil {
			return &i
		}
	}
	return nil
}

// listField accepts an array of strings or a single string.
func listField(r gjson.Result, key string) []string {
	v := r.Get(key)
	out := []string{}
	if v.IsArray() {
		for _, item := range v.Array() {
			if item.Type != gjson.String {
				continue
			}
			if s := strings.TrimSpace(item.String()); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := stringField(r, key); s != nil {
		out = append(out, *s)
	}
	return out
}

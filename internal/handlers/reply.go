package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"

	"github.com/jwebster45206/age-of-tension/pkg/chat"
	"github.com/jwebster45206/age-of-tension/pkg/state"
	"github.com/jwebster45206/age-of-tension/pkg/world"
)

// Keys a model sometimes uses instead of "narrative", in lookup order.
var narrativeAliases = []string{"response", "answer", "content", "result", "output"}

// Keys holding structured force listings that are rendered as a table.
var forceContainers = []string{"forces", "military_forces", "allied_territories"}

const defaultForcesIntro = "Here is the detailed breakdown of military forces:"

// parseReply returns the reply's root object, or false when the content is
// not a JSON object.
func parseReply(content string) (gjson.Result, bool) {
	if !gjson.Valid(content) {
		return gjson.Result{}, false
	}
	root := gjson.Parse(content)
	return root, root.IsObject()
}

// narrativeOf returns the reply's narrative text, falling back to the alias
// keys. ok is false when none is present.
func narrativeOf(root gjson.Result) (string, bool) {
	if v := root.Get("narrative"); v.Exists() {
		return v.String(), true
	}
	for _, key := range narrativeAliases {
		if v := root.Get(key); v.Exists() {
			return v.String(), true
		}
	}
	return "", false
}

func isTruncated(narrative string) bool {
	return strings.HasSuffix(strings.TrimSpace(narrative), "...")
}

// spliceContinuation joins a truncated narrative with its continuation.
func spliceContinuation(narrative, continuation string) string {
	head := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(narrative), "."))
	tail := strings.TrimSpace(continuation)
	tail = strings.TrimSpace(strings.TrimPrefix(tail, "..."))
	return head + " " + tail
}

type forceRow struct {
	country string
	troops  string
	navy    string
	air     string
}

// forcesTable renders any structured force listing in the reply as a
// Markdown table. ok is false when the reply carries none.
func forcesTable(root gjson.Result) (string, bool) {
	var rows []forceRow
	for _, key := range forceContainers {
		c := root.Get(key)
		if !c.Exists() {
			continue
		}
		label := ""
		if key == "military_forces" {
			label = root.Get("country").String()
			if label == "" {
				label = "Unknown"
			}
		}
		rows = append(rows, forceRows(c, label)...)
	}
	if len(rows) == 0 {
		return "", false
	}

	var sb strings.Builder
	intro := defaultForcesIntro
	if m := root.Get("message"); m.Exists() {
		intro = m.String()
	}
	sb.WriteString(intro)
	sb.WriteString("\n\n\n| Country | Troops | Navy (Ships) | Air Force (Jets) |\n|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", r.country, r.troops, r.navy, r.air)
	}
	if total := root.Get("total_troops"); total.Exists() {
		ships := firstOf(root, "total_ships", "total_naval_units")
		fmt.Fprintf(&sb, "\n**Total Strength**: %s Troops, %s Ships, %s Aircraft",
			formatCount(total), formatCount(ships), formatCount(root.Get("total_aircraft")))
	}
	return sb.String(), true
}

func forceRows(c gjson.Result, label string) []forceRow {
	var rows []forceRow
	switch {
	case c.IsArray():
		c.ForEach(func(_, v gjson.Result) bool {
			if v.IsObject() {
				rows = append(rows, newForceRow(v, ""))
			}
			return true
		})
	case c.IsObject():
		flat := c.Get("troops").Exists()
		c.ForEach(func(k, v gjson.Result) bool {
			if v.IsObject() {
				rows = append(rows, newForceRow(v, k.String()))
				return true
			}
			if flat && v.Type == gjson.Number {
				rows = append(rows, newForceRow(c, label))
				return false
			}
			return true
		})
	}
	return rows
}

func newForceRow(v gjson.Result, fallbackCountry string) forceRow {
	country := firstOf(v, "country", "name").String()
	if country == "" {
		country = fallbackCountry
	}
	if country == "" {
		country = "Unknown"
	}
	return forceRow{
		country: country,
		troops:  formatCount(firstOf(v, "troops", "army")),
		navy:    formatCount(firstOf(v, "ships", "navy", "naval_vessels", "naval_units")),
		air:     formatCount(firstOf(v, "aircraft", "air_force", "jets")),
	}
}

func firstOf(v gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func formatCount(v gjson.Result) string {
	switch v.Type {
	case gjson.Number:
		return humanize.Comma(int64(math.Round(v.Float())))
	case gjson.String:
		return v.String()
	default:
		return "0"
	}
}

// relationshipsOf reads the reply's relationship map, or the neutral defaults.
func relationshipsOf(root gjson.Result) map[world.FactionID]state.Relationship {
	v := root.Get("relationships")
	if !v.IsObject() {
		return state.DefaultRelationships()
	}
	out := make(map[world.FactionID]state.Relationship)
	v.ForEach(func(k, r gjson.Result) bool {
		out[world.FactionID(k.String())] = state.Relationship{
			Sentiment: int(math.Round(r.Get("sentiment").Float())),
			Status:    r.Get("status").String(),
		}
		return true
	})
	return out
}

var questionWords = []string{"what", "how", "why", "when", "where", "who", "is", "are", "can", "will", "would"}

func isQuestion(input string) bool {
	in := strings.ToLower(strings.TrimSpace(input))
	for _, w := range questionWords {
		if strings.HasPrefix(in, w) {
			return true
		}
	}
	return false
}

// eventOf reads the reply's event. A random_event answering a question is
// really a response to the player and is reported as one.
func eventOf(root gjson.Result, input string) chat.Event {
	v := root.Get("event")
	if !v.IsObject() {
		return chat.DefaultEvent()
	}
	ev := chat.Event{
		Type:        v.Get("type").String(),
		Triggered:   v.Get("triggered").Bool(),
		Title:       v.Get("title").String(),
		Description: v.Get("description").String(),
	}
	if impact := v.Get("impact"); impact.IsObject() {
		ev.Impact = make(map[string]int)
		impact.ForEach(func(k, n gjson.Result) bool {
			if n.Type == gjson.Number {
				ev.Impact[k.String()] = int(math.Round(n.Float()))
			}
			return true
		})
	}
	if ev.Type == "" {
		ev.Type = chat.EventPlayerResponse
	}
	if ev.Type == chat.EventRandom && isQuestion(input) {
		return chat.DefaultEvent()
	}
	return ev
}

// encodeReply re-serializes the reply for the continuation exchange.
func encodeReply(root gjson.Result, narrative string) string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(root.Raw), &m); err != nil {
		return root.Raw
	}
	if b, err := json.Marshal(narrative); err == nil {
		m["narrative"] = b
	}
	out, err := json.Marshal(m)
	if err != nil {
		return root.Raw
	}
	return string(out)
}

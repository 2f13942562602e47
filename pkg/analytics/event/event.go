// Package event defines the message types accepted by the analytics client
// and their wire encoding.
//
// A Message is one of the semantic analytics calls: Identify, Track, Page,
// Screen, Group, Alias, or a Batch of those. The variant set is closed; the
// client stamps every outgoing message (except Alias) with the engine-owned
// anonymous id and user id, so callers never populate those fields themselves.
//
// Wire encoding follows the collection API's JSON shape: camelCase field names
// (userId, anonymousId, groupId, previousId, originalTimestamp) and a "type"
// discriminant on every member of a batch payload.
package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message is a single analytics call. The set of implementations is closed.
type Message interface {
	// Type returns the wire discriminant for the variant
	// ("identify", "track", "page", "screen", "group", "alias", "batch").
	Type() string

	isMessage()
}

// BatchMessage is a Message that may be placed inside a Batch.
// Every variant except Batch itself qualifies.
type BatchMessage interface {
	Message

	isBatchMessage()
}

// Identify associates a visiting user with their actions and records traits
// about them (name, email address, plan, and so on).
type Identify struct {
	UserID       string         `json:"userId,omitempty"`
	AnonymousID  string         `json:"anonymousId,omitempty"`
	Traits       map[string]any `json:"traits,omitempty"`
	Timestamp    time.Time      `json:"originalTimestamp,omitzero"`
	Context      map[string]any `json:"context,omitempty"`
	Integrations map[string]any `json:"integrations,omitempty"`
}

// Track records a user action along with its associated properties.
type Track struct {
	UserID       string         `json:"userId,omitempty"`
	AnonymousID  string         `json:"anonymousId,omitempty"`
	Event        string         `json:"event"`
	Properties   map[string]any `json:"properties,omitempty"`
	Timestamp    time.Time      `json:"originalTimestamp,omitzero"`
	Context      map[string]any `json:"context,omitempty"`
	Integrations map[string]any `json:"integrations,omitempty"`
}

// Page records a page view along with relevant information about the page.
type Page struct {
	UserID       string         `json:"userId,omitempty"`
	AnonymousID  string         `json:"anonymousId,omitempty"`
	Name         string         `json:"name"`
	Properties   map[string]any `json:"properties,omitempty"`
	Timestamp    time.Time      `json:"originalTimestamp,omitzero"`
	Context      map[string]any `json:"context,omitempty"`
	Integrations map[string]any `json:"integrations,omitempty"`
}

// Screen is the mobile equivalent of Page: it records a viewed screen.
type Screen struct {
	UserID       string         `json:"userId,omitempty"`
	AnonymousID  string         `json:"anonymousId,omitempty"`
	Name         string         `json:"name"`
	Properties   map[string]any `json:"properties,omitempty"`
	Timestamp    time.Time      `json:"originalTimestamp,omitzero"`
	Context      map[string]any `json:"context,omitempty"`
	Integrations map[string]any `json:"integrations,omitempty"`
}

// Group associates an identified user with a group (company, project, team)
// and records traits of that group.
type Group struct {
	UserID       string         `json:"userId,omitempty"`
	AnonymousID  string         `json:"anonymousId,omitempty"`
	GroupID      string         `json:"groupId"`
	Traits       map[string]any `json:"traits,omitempty"`
	Timestamp    time.Time      `json:"originalTimestamp,omitzero"`
	Context      map[string]any `json:"context,omitempty"`
	Integrations map[string]any `json:"integrations,omitempty"`
}

// Alias merges two identities of a known user. It carries its own explicit
// userId/previousId pair and is never stamped with the anonymous id.
type Alias struct {
	UserID       string         `json:"userId"`
	PreviousID   string         `json:"previousId"`
	Traits       map[string]any `json:"traits,omitempty"`
	Timestamp    time.Time      `json:"originalTimestamp,omitzero"`
	Context      map[string]any `json:"context,omitempty"`
	Integrations map[string]any `json:"integrations,omitempty"`
}

// Batch carries multiple independent messages in one wire payload.
type Batch struct {
	Batch        []BatchMessage `json:"batch"`
	Context      map[string]any `json:"context,omitempty"`
	Integrations map[string]any `json:"integrations,omitempty"`
	Timestamp    time.Time      `json:"originalTimestamp,omitzero"`
}

// Type implements Message.
func (*Identify) Type() string { return "identify" }

// Type implements Message.
func (*Track) Type() string { return "track" }

// Type implements Message.
func (*Page) Type() string { return "page" }

// Type implements Message.
func (*Screen) Type() string { return "screen" }

// Type implements Message.
func (*Group) Type() string { return "group" }

// Type implements Message.
func (*Alias) Type() string { return "alias" }

// Type implements Message.
func (*Batch) Type() string { return "batch" }

func (*Identify) isMessage() {}
func (*Track) isMessage()    {}
func (*Page) isMessage()     {}
func (*Screen) isMessage()   {}
func (*Group) isMessage()    {}
func (*Alias) isMessage()    {}
func (*Batch) isMessage()    {}

func (*Identify) isBatchMessage() {}
func (*Track) isBatchMessage()    {}
func (*Page) isBatchMessage()     {}
func (*Screen) isBatchMessage()   {}
func (*Group) isBatchMessage()    {}
func (*Alias) isBatchMessage()    {}

// MarshalJSON encodes the batch with a "type" discriminant on every member.
func (b *Batch) MarshalJSON() ([]byte, error) {
	members := make([]json.RawMessage, 0, len(b.Batch))
	for i, m := range b.Batch {
		raw, err := marshalTagged(m)
		if err != nil {
			return nil, fmt.Errorf("marshal batch member %d: %w", i, err)
		}
		members = append(members, raw)
	}

	type alias Batch
	return json.Marshal(struct {
		Batch []json.RawMessage `json:"batch"`
		*alias
	}{
		Batch: members,
		alias: (*alias)(b),
	})
}

// UnmarshalJSON decodes batch members by their "type" discriminant.
func (b *Batch) UnmarshalJSON(data []byte) error {
	var aux struct {
		Batch        []json.RawMessage `json:"batch"`
		Context      map[string]any    `json:"context"`
		Integrations map[string]any    `json:"integrations"`
		Timestamp    time.Time         `json:"originalTimestamp"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	members := make([]BatchMessage, 0, len(aux.Batch))
	for i, raw := range aux.Batch {
		m, err := unmarshalTagged(raw)
		if err != nil {
			return fmt.Errorf("unmarshal batch member %d: %w", i, err)
		}
		members = append(members, m)
	}

	b.Batch = members
	b.Context = aux.Context
	b.Integrations = aux.Integrations
	b.Timestamp = aux.Timestamp
	return nil
}

// marshalTagged encodes m and splices its "type" discriminant into the
// resulting object. Batch cannot appear here, so m's own encoding is always
// a plain JSON object.
func marshalTagged(m BatchMessage) (json.RawMessage, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	prefix := `{"type":"` + m.Type() + `"`
	if len(raw) == 2 { // "{}"
		return json.RawMessage(prefix + "}"), nil
	}
	out := make([]byte, 0, len(prefix)+len(raw))
	out = append(out, prefix...)
	out = append(out, ',')
	out = append(out, raw[1:]...)
	return out, nil
}

// unmarshalTagged decodes a batch member by probing its "type" field.
func unmarshalTagged(raw json.RawMessage) (BatchMessage, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	var m BatchMessage
	switch probe.Type {
	case "identify":
		m = &Identify{}
	case "track":
		m = &Track{}
	case "page":
		m = &Page{}
	case "screen":
		m = &Screen{}
	case "group":
		m = &Group{}
	case "alias":
		m = &Alias{}
	default:
		return nil, fmt.Errorf("unknown batch message type %q", probe.Type)
	}
	if err := json.Unmarshal(raw, m); err != nil {
		return nil, err
	}
	return m, nil
}

package domain

import (
	"encoding/json"

	channelDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/channel/domain"
	statsDomain "github.com/reshetovitsme/telegram-broadcast-bot/internal/modules/stats/domain"
)

// Keys of the persisted document this version understands. Anything else is
// carried through a load/save cycle untouched.
const (
	keyChannels = "broadcast_channels"
	keyAdmins   = "admins"
	keyStats    = "stats"
	keyHistory  = "history"
)

// Record is the single persisted document: channel registry, admin set and
// cumulative broadcast statistics.
type Record struct {
	Channels []channelDomain.Channel
	Admins   []int64
	Stats    statsDomain.Stats
	History  []statsDomain.RunSummary

	extra map[string]json.RawMessage
}

// NewRecord returns a default-initialized record with non-nil collections so
// the persisted form always contains arrays rather than nulls.
func NewRecord() *Record {
	return &Record{
		Channels: []channelDomain.Channel{},
		Admins:   []int64{},
		History:  []statsDomain.RunSummary{},
		extra:    map[string]json.RawMessage{},
	}
}

func isKnownKey(k string) bool {
	switch k {
	case keyChannels, keyAdmins, keyStats, keyHistory:
		return true
	}
	return false
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = *NewRecord()

	if v, ok := raw[keyChannels]; ok {
		if err := json.Unmarshal(v, &r.Channels); err != nil {
			return err
		}
	}
	if v, ok := raw[keyAdmins]; ok {
		if err := json.Unmarshal(v, &r.Admins); err != nil {
			return err
		}
	}
	if v, ok := raw[keyStats]; ok {
		if err := json.Unmarshal(v, &r.Stats); err != nil {
			return err
		}
	}
	if v, ok := raw[keyHistory]; ok {
		if err := json.Unmarshal(v, &r.History); err != nil {
			return err
		}
	}

	// A file missing newer fields fills in defaults without losing the rest.
	if r.Channels == nil {
		r.Channels = []channelDomain.Channel{}
	}
	if r.Admins == nil {
		r.Admins = []int64{}
	}
	if r.History == nil {
		r.History = []statsDomain.RunSummary{}
	}

	for k, v := range raw {
		if !isKnownKey(k) {
			r.extra[k] = v
		}
	}

	return nil
}

func (r *Record) MarshalJSON() ([]byte, error) {
	// Map marshalling sorts keys, so repeated saves of the same record produce
	// byte-identical output.
	out := make(map[string]json.RawMessage, len(r.extra)+4)
	for k, v := range r.extra {
		out[k] = v
	}

	put := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = b
		return nil
	}

	if err := put(keyChannels, r.Channels); err != nil {
		return nil, err
	}
	if err := put(keyAdmins, r.Admins); err != nil {
		return nil, err
	}
	if err := put(keyStats, r.Stats); err != nil {
		return nil, err
	}
	if err := put(keyHistory, r.History); err != nil {
		return nil, err
	}

	return json.Marshal(out)
}

// ExtraKeys lists preserved unknown top-level fields, mainly for diagnostics.
func (r *Record) ExtraKeys() []string {
	keys := make([]string, 0, len(r.extra))
	for k := range r.extra {
		keys = append(keys, k)
	}
	return keys
}

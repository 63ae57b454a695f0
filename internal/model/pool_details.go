package model

import (
	"encoding/json"
	"strconv"
)

// PoolEntry is a raw pool-details record keyed by field name.
type PoolEntry map[string]any

// PoolDetails maps pool ids to their raw contract records.
type PoolDetails map[string]PoolEntry

// UnmarshalJSON decodes each pool on its own so one malformed record does
// not discard the rest. Empty values (null, "", false, 0) decode to a nil
// entry; any other non-object value becomes an empty entry.
func (d *PoolDetails) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*d = nil
		return nil
	}

	out := make(PoolDetails, len(raw))
	for id, value := range raw {
		out[id] = decodeEntry(value)
	}
	*d = out
	return nil
}

func decodeEntry(data json.RawMessage) PoolEntry {
	var entry PoolEntry
	if err := json.Unmarshal(data, &entry); err == nil {
		return entry
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return PoolEntry{}
	}
	switch v := value.(type) {
	case string:
		if v == "" {
			return nil
		}
	case bool:
		if !v {
			return nil
		}
	case float64:
		if v == 0 {
			return nil
		}
	}
	return PoolEntry{}
}

// Field returns the display value for key, or nil when it is absent or empty.
func (e PoolEntry) Field(key string) *string {
	if e == nil {
		return nil
	}
	raw, ok := e[key]
	if !ok {
		return nil
	}

	var value string
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		value = v
	case bool:
		if !v {
			return nil
		}
		value = strconv.FormatBool(v)
	case float64:
		if v == 0 {
			return nil
		}
		value = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		value = string(b)
	}

	if value == "" {
		return nil
	}
	return &value
}

// PoolInfo is the display record for a validator pool.
type PoolInfo struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	Email       *string `json:"email"`
	Twitter     *string `json:"twitter"`
	Telegram    *string `json:"telegram"`
	Discord     *string `json:"discord"`
	Country     *string `json:"country"`
	CountryCode *string `json:"country_code"`
	City        *string `json:"city"`
}

// NewPoolInfo keeps the known display fields of a raw entry.
func NewPoolInfo(entry PoolEntry) PoolInfo {
	return PoolInfo{
		Name:        entry.Field("name"),
		Description: entry.Field("description"),
		URL:         entry.Field("url"),
		Email:       entry.Field("email"),
		Twitter:     entry.Field("twitter"),
		Telegram:    entry.Field("telegram"),
		Discord:     entry.Field("discord"),
		Country:     entry.Field("country"),
		CountryCode: entry.Field("country_code"),
		City:        entry.Field("city"),
	}
}

// PoolRecord pairs a pool id with its display record.
type PoolRecord struct {
	PoolID string `json:"pool_id"`
	PoolInfo
}

package config

import (
	"fmt"
)

// SettingInfo describes one effective setting
type SettingInfo struct {
	Key        string
	Value      interface{}
	Source     Source
	SourcePath string
}

// Introspect returns every setting with its effective value and origin,
// sorted by key.
func (l *Loader) Introspect() []SettingInfo {
	keys := Keys()
	out := make([]SettingInfo, 0, len(keys))
	for _, key := range keys {
		si := l.Source(key)
		out = append(out, SettingInfo{
			Key:        key,
			Value:      l.v.Get(key),
			Source:     si.Source,
			SourcePath: si.Path,
		})
	}
	return out
}

// Table renders settings as rows for display, with a header row
func Table(settings []SettingInfo) [][]string {
	rows := [][]string{{"Key", "Value", "Source"}}
	for _, s := range settings {
		source := string(s.Source)
		if s.SourcePath != "" && s.Source != SourceDefault {
			source += " (" + s.SourcePath + ")"
		}
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), source})
	}
	return rows
}

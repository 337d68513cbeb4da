package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/caremesh/core"
)

// dayConfig is the YAML document a run consumes: the user profile, the daily
// schedule, optional scripted replies keyed by slot time and optional
// knowledge notes keyed by task keyword.
type dayConfig struct {
	Profile struct {
		Name        string `yaml:"name"`
		HealthNotes string `yaml:"health_notes"`
	} `yaml:"profile"`
	Schedule []struct {
		Time     string `yaml:"time"`
		Task     string `yaml:"task"`
		Priority string `yaml:"priority"`
	} `yaml:"schedule"`
	Replies map[string]string `yaml:"replies"`
	Notes   map[string]string `yaml:"notes"`
}

func loadDayConfig(path string) (*dayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg dayConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Schedule) == 0 {
		return nil, fmt.Errorf("config %s: schedule must not be empty", path)
	}

	return &cfg, nil
}

// entries converts the raw schedule items into validated domain entries.
func (c *dayConfig) entries() ([]core.ScheduleEntry, error) {
	out := make([]core.ScheduleEntry, 0, len(c.Schedule))
	for i, item := range c.Schedule {
		key, err := core.ParseTimeKey(item.Time)
		if err != nil {
			return nil, fmt.Errorf("schedule[%d]: %w", i, err)
		}
		priority, err := core.ParsePriority(item.Priority)
		if err != nil {
			return nil, fmt.Errorf("schedule[%d]: %w", i, err)
		}
		if item.Task == "" {
			return nil, fmt.Errorf("schedule[%d]: task must not be empty", i)
		}
		out = append(out, core.ScheduleEntry{TimeKey: key, Task: item.Task, Priority: priority})
	}
	return out, nil
}

// scriptedReplies normalizes the reply keys into canonical time keys.
func (c *dayConfig) scriptedReplies() (map[core.TimeKey]string, error) {
	out := make(map[core.TimeKey]string, len(c.Replies))
	for raw, text := range c.Replies {
		key, err := core.ParseTimeKey(raw)
		if err != nil {
			return nil, fmt.Errorf("replies: %w", err)
		}
		out[key] = text
	}
	return out, nil
}

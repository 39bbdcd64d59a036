package config

import (
	"sort"

	"github.com/san-kum/ledpanel/internal/anim"
)

// Presets holds named parameter sets per animation. Fields a preset omits
// keep the animation's defaults.
var Presets = map[string]map[string]anim.Values{
	"fire": {
		"embers":  {"delay_ms": 40, "cooling": 90, "sparking": 50},
		"inferno": {"delay_ms": 20, "cooling": 40, "sparking": 200},
		"falling": {"reverse": 1},
	},
	"digitalrain": {
		"matrix": {"hue": 120, "head_len": 3},
		"ice":    {"hue": 200, "head_len": 2, "delay_ms": 30},
		"storm":  {"hue": 260, "delay_ms": 10, "tail_len_min": 4, "tail_len_max": 12},
	},
	"gameoflife": {
		"sparse": {"num_init_cells": 4, "size_init_cell": 3},
		"dense":  {"num_init_cells": 30, "size_init_cell": 4, "delay_ms": 100},
		"slow":   {"delay_ms": 400, "hue_inc": 20},
	},
	"metaballs": {
		"lava":  {"hue_min": 0, "hue_max": 60, "hue_mode": 0, "max_radius": 7},
		"ocean": {"hue_min": 160, "hue_max": 240, "hue_mode": 0, "hue_inc": 20},
		"swarm": {"n_mballs": 10, "max_radius": 3, "max_speed": 90},
	},
	"randomwalk": {
		"comet": {"delay_ms": 20, "fade": 230},
		"ember": {"delay_ms": 80, "fade": 150, "hue_inc": 0},
		"rapid": {"delay_ms": 5, "fade_delay_ms": 5},
	},
	"worley": {
		"cells": {"num_features": 8},
		"drift": {"num_features": 3, "move_speed": 2, "delay_ms": 40},
	},
	"sparkle": {
		"stars": {"delay_new_ms": 120, "fade": 240},
		"storm": {"delay_new_ms": 5, "fade": 200},
	},
	"wave": {
		"slow":    {"delay_ms": 1000},
		"reverse": {"direction": 1, "inc": 4},
	},
}

func GetPreset(animation, preset string) anim.Values {
	animPresets, ok := Presets[animation]
	if !ok {
		return nil
	}
	v, ok := animPresets[preset]
	if !ok {
		return nil
	}
	return v.Merge(nil)
}

func ListPresets(animation string) []string {
	animPresets, ok := Presets[animation]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(animPresets))
	for name := range animPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import "github.com/ankek/mermaid-export/internal/engine"

// Built-in neutral palettes applied as engine theme variables. The light
// set tracks mermaid's theme-neutral values, the dark set its theme-dark
// values, trimmed to the variables the supported diagram types read.

func lightThemeVariables() engine.ThemeVariables {
	return engine.ThemeVariables{
		"primaryColor":       "#f4f4f4",
		"primaryTextColor":   "#1f1f1f",
		"primaryBorderColor": "#1f1f1f",
		"lineColor":          "#1f1f1f",
		"textColor":          "#1f1f1f",
		"mainBkg":            "#f4f4f4",

		"secondaryColor":       "#e0e0e0",
		"secondaryTextColor":   "#333333",
		"secondaryBorderColor": "#aaaaaa",
		"tertiaryColor":        "#d0d0d0",
		"tertiaryTextColor":    "#555555",
		"tertiaryBorderColor":  "#888888",

		"errorBkgColor":  "#eb9d9d",
		"errorTextColor": "#000000",

		"nodeBorder":    "#1f1f1f",
		"nodeTextColor": "#1f1f1f",

		"actorBorder":        "#888888",
		"actorBkg":           "#d0d0d0",
		"actorTextColor":     "#555555",
		"labelBoxBkgColor":   "#e0e0e0",
		"labelTextColor":     "#1f1f1f",
		"noteBorderColor":    "#aaaaaa",
		"noteBkgColor":       "#f8f8f8",
		"noteTextColor":      "#1f1f1f",
		"activationBkgColor": "#f4f4f4",
		"messageLine0":       "#1f1f1f",
		"messageTextColor":   "#1f1f1f",

		"taskTextDarkColor":    "#1f1f1f",
		"taskTextOutsideColor": "#1f1f1f",
		"taskBorderColor":      "#1f1f1f",
		"taskBkgColor":         "#e8e8e8",
		"activeTaskBkgColor":   "#d8d8d8",
		"gridColor":            "#aaaaaa",
		"doneTaskBkgColor":     "#c8c8c8",
		"critTaskBkgColor":     "#e0e0e0",
		"todayLineColor":       "#cc0000",

		"fontSize":   "14px",
		"fontFamily": "sans-serif",
		"background": "#ffffff",
	}
}

func darkThemeVariables() engine.ThemeVariables {
	return engine.ThemeVariables{
		"background":         "#2d2d2d",
		"primaryColor":       "#1e1e1e",
		"primaryTextColor":   "#e0e0e0",
		"primaryBorderColor": "#c0c0c0",
		"lineColor":          "#e0e0e0",
		"textColor":          "#e0e0e0",
		"mainBkg":            "#1e1e1e",

		"secondaryColor":       "#2a2a2a",
		"secondaryTextColor":   "#d0d0d0",
		"secondaryBorderColor": "#b0b0b0",
		"tertiaryColor":        "#383838",
		"tertiaryTextColor":    "#c0c0c0",
		"tertiaryBorderColor":  "#a0a0a0",

		"errorBkgColor":  "#581818",
		"errorTextColor": "#e0e0e0",

		"nodeBorder":    "#c0c0c0",
		"nodeTextColor": "#e0e0e0",

		"actorBorder":        "#a0a0a0",
		"actorBkg":           "#383838",
		"actorTextColor":     "#c0c0c0",
		"labelBoxBkgColor":   "#2a2a2a",
		"labelTextColor":     "#e0e0e0",
		"noteBorderColor":    "#b0b0b0",
		"noteBkgColor":       "#252525",
		"noteTextColor":      "#e0e0e0",
		"activationBkgColor": "#1e1e1e",
		"messageLine0":       "#e0e0e0",
		"messageTextColor":   "#e0e0e0",

		"taskTextDarkColor":    "#e0e0e0",
		"taskTextOutsideColor": "#e0e0e0",
		"taskBorderColor":      "#c0c0c0",
		"taskBkgColor":         "#4a4a4a",
		"activeTaskBkgColor":   "#5a5a5a",
		"gridColor":            "#777777",
		"doneTaskBkgColor":     "#3a3a3a",
		"critTaskBkgColor":     "#530053",
		"todayLineColor":       "#ff4500",

		"fontSize":   "14px",
		"fontFamily": "sans-serif",
	}
}

package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/blankon/repackage-go/internal/cli/entity"
)

// GateState is where the capability gate is in its lifecycle.
type GateState string

const (
	GateLoading  GateState = "loading"
	GateReady    GateState = "ready"
	GateDegraded GateState = "degraded"
)

type BannerLevel string

const (
	BannerInfo    BannerLevel = "info"
	BannerWarning BannerLevel = "warning"
	BannerError   BannerLevel = "error"
)

const (
	TagUnsupported = "Not supported by environment"
	TagRecommended = "Recommended"
)

// ItemStatus colours one line of the environment summary.
type ItemStatus string

const (
	ItemOK      ItemStatus = "ok"
	ItemWarning ItemStatus = "warning"
	ItemMissing ItemStatus = "missing"
)

type EnvironmentItem struct {
	Label   string
	Value   string
	Status  ItemStatus
	Details []string
}

// EnvironmentSummary is the status panel rendered after a successful fetch.
type EnvironmentSummary struct {
	Items    []EnvironmentItem
	Warnings []string
}

// ModeOption is how one mode is offered to the user.
type ModeOption struct {
	Mode        entity.Mode
	Disabled    bool
	Recommended bool
	Tag         string
}

// GateResult is the outcome of the capability check.
type GateResult struct {
	State        GateState
	Options      []ModeOption
	Mode         entity.Mode
	Execution    entity.Execution
	Capabilities *entity.SystemCapabilities
	Summary      EnvironmentSummary
}

// CapabilityGate fetches the server capability snapshot once and gates the
// modes offered to the user.
type CapabilityGate struct {
	API  RepackagerAPI
	View View
	Log  zerolog.Logger

	state  GateState
	result *GateResult
}

func (g *CapabilityGate) State() GateState {
	if g.state == "" {
		return GateLoading
	}
	return g.state
}

// Load runs the gate. It only talks to the server the first time; later calls
// return the same snapshot since capabilities never change for a session.
func (g *CapabilityGate) Load(ctx context.Context, form *entity.FormState) GateResult {
	if g.result != nil {
		return *g.result
	}
	g.state = GateLoading
	g.Log.Debug().Msg("detecting system environment")

	caps, err := g.API.GetCapabilities(ctx)
	var result GateResult
	if err != nil {
		g.Log.Warn().Err(err).Msg("capability detection failed")
		result = g.degrade(form)
	} else {
		result = g.apply(form, caps)
	}
	g.result = &result
	return result
}

func (g *CapabilityGate) degrade(form *entity.FormState) GateResult {
	g.state = GateDegraded
	form.DisabledModes = map[entity.Mode]bool{}
	// A configured execution survives; only an unusable one falls back.
	if !form.Execution.Valid() {
		form.Execution = entity.DefaultExecution
	}
	_ = SwitchMode(form, entity.DefaultMode)
	if g.View != nil {
		g.View.ShowBanner(BannerWarning, "System notice", "System environment detection failed, some features may be unavailable")
	}
	options := make([]ModeOption, 0, len(entity.Modes))
	for _, mode := range entity.Modes {
		options = append(options, ModeOption{Mode: mode})
	}
	return GateResult{
		State:     GateDegraded,
		Options:   options,
		Mode:      form.Mode,
		Execution: form.Execution,
	}
}

func (g *CapabilityGate) apply(form *entity.FormState, caps entity.SystemCapabilities) GateResult {
	g.state = GateReady
	form.DisabledModes = map[entity.Mode]bool{}
	options := make([]ModeOption, 0, len(entity.Modes))
	for _, mode := range entity.Modes {
		option := ModeOption{Mode: mode}
		if caps.IsDisabled(mode) {
			option.Disabled = true
			option.Tag = TagUnsupported
			form.DisabledModes[mode] = true
		} else if caps.IsRecommended(mode) {
			option.Recommended = true
			option.Tag = TagRecommended
		}
		options = append(options, option)
	}

	summary := Summarize(caps)
	if g.View != nil {
		g.View.ShowEnvironment(summary)
	}

	if mode, ok := SelectDefaultMode(caps, form.DisabledModes); ok {
		_ = SwitchMode(form, mode)
	}
	g.Log.Info().Str("mode", string(form.Mode)).Int("disabled", len(form.DisabledModes)).Msg("environment detected")

	return GateResult{
		State:        GateReady,
		Options:      options,
		Mode:         form.Mode,
		Execution:    form.Execution,
		Capabilities: &caps,
		Summary:      summary,
	}
}

// SelectDefaultMode picks the first recommended mode that is enabled, then the
// first enabled mode. It reports false when every mode is disabled.
func SelectDefaultMode(caps entity.SystemCapabilities, disabled map[entity.Mode]bool) (entity.Mode, bool) {
	for _, mode := range caps.RecommendedModes {
		if mode.Valid() && !disabled[mode] {
			return mode, true
		}
	}
	for _, mode := range entity.Modes {
		if !disabled[mode] {
			return mode, true
		}
	}
	return "", false
}

// Summarize builds the environment status panel.
func Summarize(caps entity.SystemCapabilities) EnvironmentSummary {
	docker := EnvironmentItem{Label: "Docker", Value: "not installed", Status: ItemMissing}
	if caps.DockerAvailable {
		docker.Value, docker.Status = "installed but not running", ItemWarning
		if caps.DockerRunning {
			docker.Value, docker.Status = "available", ItemOK
		}
	}

	containers := EnvironmentItem{Label: "Plugin containers", Value: "not running", Status: ItemMissing}
	if caps.PluginContainerRunning {
		containers.Value = fmt.Sprintf("running (%d)", len(caps.PluginContainers))
		containers.Status = ItemOK
	}
	containers.Details = append([]string(nil), caps.PluginContainers...)

	python := EnvironmentItem{Label: "Python", Value: "not detected", Status: ItemMissing}
	if caps.PythonAvailable {
		python.Value, python.Status = caps.PythonVersion, ItemOK
	}

	return EnvironmentSummary{
		Items: []EnvironmentItem{
			docker,
			containers,
			python,
			availability("pip", caps.PipAvailable, "available", "unavailable"),
			availability("unzip", caps.UnzipAvailable, "available", "unavailable"),
			availability("Network", caps.NetworkAvailable, "ok", "unavailable"),
		},
		Warnings: append([]string(nil), caps.WarningMessages...),
	}
}

func availability(label string, ok bool, yes, no string) EnvironmentItem {
	if ok {
		return EnvironmentItem{Label: label, Value: yes, Status: ItemOK}
	}
	return EnvironmentItem{Label: label, Value: no, Status: ItemMissing}
}

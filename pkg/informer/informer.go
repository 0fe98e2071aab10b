// Package informer carries the step messages the pipelines emit. A message
// is a list of codes plus named parameters; rendering them is up to the
// Informer the caller plugs in.
package informer

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Code identifies one step message.
type Code string

// Step codes
const (
	ToolDisabled      Code = "tool.disabled"
	ToolFolderMissing Code = "tool.folder_missing"
	ToolMissing       Code = "tool.missing"

	UnpackStarted   Code = "unpack.started"
	UnpackCleanup   Code = "unpack.cleanup"
	UnpackNothing   Code = "unpack.nothing"
	UnpackModDone   Code = "unpack.mod_done"
	UnpackModFailed Code = "unpack.mod_failed"
	UnpackFinished  Code = "unpack.finished"

	PackStarted        Code = "pack.started"
	PackStagingMissing Code = "pack.staging_missing"
	PackFolderFailed   Code = "pack.folder_failed"
	PackFinished       Code = "pack.finished"

	PatchGameFolderMissing Code = "patch.game_folder_missing"
	PatchCleanup           Code = "patch.cleanup"
	PatchNoArtifacts       Code = "patch.no_artifacts"
	PatchInstalled         Code = "patch.installed"
	PatchStatus            Code = "patch.status"
	PatchFinished          Code = "patch.finished"

	UnpatchNone     Code = "unpatch.none"
	UnpatchFinished Code = "unpatch.finished"

	ModAdded            Code = "mod.added"
	ModEnabled          Code = "mod.enabled"
	ModDisabled         Code = "mod.disabled"
	ModDeleted          Code = "mod.deleted"
	ModValidationFailed Code = "mod.validation_failed"

	ProfileLoaded Code = "profile.loaded"
)

// Parameter names
const (
	ParamElapsed = "elapsed"
	ParamName    = "name"
	ParamReason  = "reason"
	ParamCount   = "count"
)

// Params are the named values attached to a message.
type Params map[string]interface{}

// Elapsed returns the elapsed parameter, or zero.
func (p Params) Elapsed() time.Duration {
	d, _ := p[ParamElapsed].(time.Duration)
	return d
}

// Informer receives step messages.
type Informer interface {
	Inform(codes []Code, params Params)
}

// Func adapts a function to an Informer.
type Func func(codes []Code, params Params)

// Inform calls f.
func (f Func) Inform(codes []Code, params Params) {
	f(codes, params)
}

// Nop discards every message.
var Nop Informer = Func(func([]Code, Params) {})

// Inform is shorthand for sending a single code.
func Inform(i Informer, code Code, params Params) {
	if i == nil {
		return
	}
	i.Inform([]Code{code}, params)
}

// Multi fans a message out to several informers.
func Multi(informers ...Informer) Informer {
	return Func(func(codes []Code, params Params) {
		for _, i := range informers {
			i.Inform(codes, params)
		}
	})
}

// Recorder keeps every message it receives. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Message is one recorded Inform call.
type Message struct {
	Codes  []Code
	Params Params
}

func (r *Recorder) Inform(codes []Code, params Params) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Codes: append([]Code(nil), codes...), Params: params})
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Codes returns every recorded code in arrival order.
func (r *Recorder) Codes() []Code {
	var codes []Code
	for _, m := range r.Messages() {
		codes = append(codes, m.Codes...)
	}
	return codes
}

// Has reports whether code was recorded.
func (r *Recorder) Has(code Code) bool {
	for _, c := range r.Codes() {
		if c == code {
			return true
		}
	}
	return false
}

// Format renders codes with params using the message table. Unknown codes
// render as the code itself.
func Format(codes []Code, params Params) string {
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, expand(messageFor(code), params))
	}
	return strings.Join(parts, " ")
}

func expand(template string, params Params) string {
	if len(params) == 0 {
		return template
	}
	pairs := make([]string, 0, len(params)*2)
	for key, value := range params {
		if d, ok := value.(time.Duration); ok {
			value = d.Round(time.Millisecond)
		}
		pairs = append(pairs, "{"+key+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// pkg/informer/informer_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test message formatting, severities and the recorder

package informer_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/arthur-debert/modpatch/pkg/informer"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	msg := informer.Format([]informer.Code{informer.UnpackFinished}, informer.Params{
		informer.ParamCount:   3,
		informer.ParamElapsed: 1500 * time.Millisecond,
	})
	assert.Equal(t, "Unpacked 3 mods in 1.5s", msg)

	assert.Equal(t, "custom.code", informer.Format([]informer.Code{"custom.code"}, nil))
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, informer.SeverityInfo, informer.SeverityOf([]informer.Code{informer.UnpackStarted}))
	assert.Equal(t, informer.SeverityError, informer.SeverityOf([]informer.Code{informer.UnpackStarted, informer.ToolMissing}))
}

func TestRecorder(t *testing.T) {
	rec := &informer.Recorder{}
	informer.Inform(rec, informer.UnpackStarted, nil)
	rec.Inform([]informer.Code{informer.UnpackModDone}, informer.Params{informer.ParamName: "a"})

	assert.Equal(t, []informer.Code{informer.UnpackStarted, informer.UnpackModDone}, rec.Codes())
	assert.True(t, rec.Has(informer.UnpackModDone))
	assert.False(t, rec.Has(informer.PackFinished))
	assert.Equal(t, "a", rec.Messages()[1].Params[informer.ParamName])
}

func TestMulti(t *testing.T) {
	a, b := &informer.Recorder{}, &informer.Recorder{}
	informer.Inform(informer.Multi(a, b), informer.PatchFinished, nil)
	assert.True(t, a.Has(informer.PatchFinished))
	assert.True(t, b.Has(informer.PatchFinished))
}

func TestLogAndConsole(t *testing.T) {
	var logBuf bytes.Buffer
	informer.Inform(informer.NewLog(zerolog.New(&logBuf)), informer.ToolMissing, nil)
	assert.Contains(t, logBuf.String(), `"level":"error"`)
	assert.Contains(t, logBuf.String(), "tool.missing")

	var out bytes.Buffer
	informer.Inform(informer.NewConsole(&out), informer.UnpackModDone, informer.Params{informer.ParamName: "ui"})
	assert.Contains(t, out.String(), "Unpacked ui")
}

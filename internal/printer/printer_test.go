package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_FatalError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).FatalError(errors.New("storage unavailable"))

	assert.Contains(t, buf.String(), "Error")
	assert.Contains(t, buf.String(), "storage unavailable")
}

func TestPrinter_FatalErrorValidation(t *testing.T) {
	var buf bytes.Buffer
	err := fmt.Errorf("load config: %w", criterio.NewFieldErrors("history.max_entries", errors.New("must be at least 1")))

	New(&buf).FatalError(err)

	out := buf.String()
	assert.Contains(t, out, "Validation Error")
	assert.Contains(t, out, "history.max_entries: ")
	assert.Contains(t, out, "must be at least 1")
}

func TestPrinter_Stat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Stat("Favorites", 3)

	assert.Contains(t, buf.String(), "Favorites:")
	assert.Contains(t, buf.String(), "3")
}

func TestCtx_Default(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	assert.Same(t, p, Ctx(NewContext(context.Background(), p)))
	assert.NotNil(t, Ctx(context.Background()))
}

func TestFavoriteMark(t *testing.T) {
	assert.Contains(t, FavoriteMark(true), Star)
	assert.Equal(t, " ", FavoriteMark(false))
}

func TestPrinter_StatusLines(t *testing.T) {
	tests := []struct {
		name   string
		print  func(p *Printer)
		color  string
		symbol string
	}{
		{name: "success", print: func(p *Printer) { p.Successf("saved %d", 2) }, color: ColorGreen, symbol: Check},
		{name: "info", print: func(p *Printer) { p.Infof("saved %d", 2) }, color: ColorGray, symbol: Dot},
		{name: "warn", print: func(p *Printer) { p.Warnf("saved %d", 2) }, color: ColorYellow, symbol: Dot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(New(&buf))

			assert.Equal(t, tt.color+tt.symbol+" saved 2"+ColorReset+"\n", buf.String())
		})
	}
}

func TestPrinter_SuccessDetails(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Success("Searching for \"Guernica\"", "id 123")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "id 123")
}

func TestMuted(t *testing.T) {
	assert.Equal(t, ColorGray+"2 hours ago"+ColorReset, Muted("2 hours ago"))
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/weightkeeper/internal/client/models"
)

const dateLayout = "2006-01-02"

var (
	errUsageAdd      = errors.New("usage: add <kg> [YYYY-MM-DD]")
	errWeightOutside = errors.New("weight must be between 1 and 700 kg")
)

// now is a test seam for the measurement timestamp.
var now = time.Now

func (a *App) AddWeight(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsageAdd
	}

	kg, err := strconv.ParseFloat(strings.Replace(args[0], ",", ".", 1), 64)
	if err != nil {
		return errUsageAdd
	}
	if kg < 1 || kg > 700 {
		return errWeightOutside
	}

	at := now()
	if len(args) == 2 {
		day, err := time.ParseInLocation(dateLayout, args[1], time.Local)
		if err != nil {
			return errUsageAdd
		}
		at = day
	}

	m, err := a.weights.Add(ctx, models.Measurement{WeightKg: kg, RecordedAt: at})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recorded %.1f kg on %s\n", m.WeightKg, m.RecordedAt.Format(dateLayout))
	return nil
}

func (a *App) List(ctx context.Context) error {
	items, err := a.weights.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No measurements yet.")
		return nil
	}
	for _, m := range items {
		fmt.Fprintf(a.out, "%s  %6.1f kg\n", m.RecordedAt.Format("2006-01-02 15:04"), m.WeightKg)
	}
	return nil
}

func (a *App) ChangePasscode(ctx context.Context) (bool, error) {
	res, err := a.runScreen(ctx, a.flows.StartSettings)
	if err != nil {
		return false, err
	}

	switch res {
	case resultCreated:
		fmt.Fprintln(a.out, "Passcode updated.")
	case resultSkipped:
		fmt.Fprintln(a.out, "Passcode removed.")
	case resultReset:
		fmt.Fprintln(a.out, "Passcode and measurements erased.")
		return true, nil
	}
	return false, nil
}

func (a *App) SignOut(ctx context.Context) (bool, error) {
	ok, err := a.lines.Confirm(ctx, a.out, "Sign out? The passcode and all measurements will be erased.")
	if err != nil || !ok {
		return false, err
	}
	if _, err := a.session.SignOut(ctx); err != nil {
		return false, err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return true, nil
}

// Stats prints the authentication counters gathered so far.
func (a *App) Stats(context.Context) error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var labels []string
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", f.GetName(), strings.Join(labels, ","), value))
		}
	}
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "Nothing recorded yet.")
		return nil
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(a.out, l)
	}
	return nil
}

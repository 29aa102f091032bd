package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/srlab/scheme-reliability/pkg/scheme"
)

func TestObserveAndHandlerExposeMetrics(t *testing.T) {
	e := NewExporter()

	summary := scheme.Summary{
		SP:                 0.6144,
		SQ:                 0.3856,
		FailProbPerElement: []float64{0, 0.2},
		StateCount:         256,
		NumericWarning:     false,
	}

	if err := e.Observe(summary, []string{"p0", "e4"}); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(e.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	buf := make([]byte, 16384)
	n, _ := resp.Body.Read(buf)
	body := string(buf[:n])

	for _, want := range []string{
		"scheme_reliability_sp 0.6144",
		"scheme_reliability_sq 0.3856",
		`scheme_reliability_element_fail_prob{element="p0"} 0`,
		`scheme_reliability_element_fail_prob{element="e4"} 0.2`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q, got:\n%s", want, body)
		}
	}
}

func TestObserveRejectsMismatchedElementNames(t *testing.T) {
	e := NewExporter()
	summary := scheme.Summary{FailProbPerElement: []float64{0.1, 0.2}}

	if err := e.Observe(summary, []string{"only-one"}); err == nil {
		t.Fatal("expected an error when element names don't match fail-probability length")
	}
}

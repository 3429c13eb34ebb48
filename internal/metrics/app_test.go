package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterAppMetrics_Idempotent(t *testing.T) {
	RegisterAppMetrics()
	RegisterAppMetrics()
}

func TestFunctionExecutionsTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(FunctionExecutionsTotal.WithLabelValues("search", "success"))
	FunctionExecutionsTotal.WithLabelValues("search", "success").Inc()
	after := testutil.ToFloat64(FunctionExecutionsTotal.WithLabelValues("search", "success"))
	if after != before+1 {
		t.Errorf("expected counter to grow by 1, got %f -> %f", before, after)
	}
}

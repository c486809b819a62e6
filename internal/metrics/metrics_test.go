package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSave(t *testing.T) {
	saveTotal.Reset()
	saveDuration.Reset()

	RecordSave("insert", "success", 3*time.Millisecond)
	RecordSave("insert", "success", 5*time.Millisecond)
	RecordSave("update", "dropped", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(saveTotal.WithLabelValues("insert", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(saveTotal.WithLabelValues("update", "dropped")))
	assert.Equal(t, 1, testutil.CollectAndCount(saveDuration))
}

func TestRecordCreate(t *testing.T) {
	roadmapsCreatedTotal.Reset()

	RecordCreate("created")
	RecordCreate("blocked")
	RecordCreate("blocked")

	assert.Equal(t, 1.0, testutil.ToFloat64(roadmapsCreatedTotal.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(roadmapsCreatedTotal.WithLabelValues("blocked")))
}

func TestRecordExportAndPlanChange(t *testing.T) {
	exportsTotal.Reset()
	planUpgradesTotal.Reset()

	RecordExport("markdown", "success")
	RecordExport("yaml", "locked")
	RecordPlanChange("monthly")

	assert.Equal(t, 1.0, testutil.ToFloat64(exportsTotal.WithLabelValues("markdown", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(exportsTotal.WithLabelValues("yaml", "locked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(planUpgradesTotal.WithLabelValues("monthly")))
}

package publish

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	publishApp "github.com/faqplusplus/faqplusplus/internal/application/publish"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, publishApp.Report{
		"fr": {Stage: publishApp.StageNoChanges},
		"en": {Stage: publishApp.StageDone},
		"de": {Stage: publishApp.StagePublish, Err: errors.New("status 500")},
	})

	assert.Equal(t,
		"de       publish        status 500\n"+
			"en       done\n"+
			"fr       no_changes\n",
		buf.String())
}

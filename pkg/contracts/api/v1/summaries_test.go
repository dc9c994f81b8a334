package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryUploadRequest_FormatOrDefault(t *testing.T) {
	assert.Equal(t, FormatJSON, SummaryUploadRequest{}.FormatOrDefault())
	assert.Equal(t, FormatHTML, SummaryUploadRequest{Format: FormatHTML}.FormatOrDefault())
}

func TestNewSuccessResponse(t *testing.T) {
	data, err := json.Marshal(NewSuccessResponse(map[string]int{"Total Orders": 3}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","data":{"Total Orders":3}}`, string(data))
}

package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func Test_SwaggerDoc_ListsLendingRoutes(t *testing.T) {
	// arrange
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	// act
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	// assert
	for path, method := range map[string]string{
		"/books/lend":                          "post",
		"/books/return":                        "post",
		"/books/borrows/{reader_id}":           "get",
		"/books/borrows/notreturn/{reader_id}": "get",
		"/books/{book_id}/copies":              "post",
		"/loans/overdue":                       "get",
		"/loans/{loan_id}":                     "get",
	} {
		require.Contains(t, doc.Paths, path)
		assert.Contains(t, doc.Paths[path], method, path)
	}
}

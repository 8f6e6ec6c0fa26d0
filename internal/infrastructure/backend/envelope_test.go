package backend

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestUnwrap_AllShapesYieldSameList(t *testing.T) {
	want := []item{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Globex"}}
	list := `[{"id":1,"name":"Acme"},{"id":2,"name":"Globex"}]`

	shapes := map[string]string{
		"bare array":     list,
		"data array":     `{"data":` + list + `}`,
		"paginated data": `{"data":{"current_page":1,"data":` + list + `,"total":2}}`,
		"members key":    `{"members":` + list + `}`,
	}

	for name, body := range shapes {
		t.Run(name, func(t *testing.T) {
			page, err := Unwrap[item](json.RawMessage(body))
			require.NoError(t, err)
			assert.Equal(t, want, page.Items)
		})
	}
}

func TestUnwrap_PassesMetaThrough(t *testing.T) {
	body := `{"data":[{"id":1}],"meta":{"total":40},"links":{"next":"/x?page=2"}}`

	page, err := Unwrap[item](json.RawMessage(body))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.JSONEq(t, `{"total":40}`, string(page.Meta))
	assert.JSONEq(t, `{"next":"/x?page=2"}`, string(page.Links))
}

func TestUnwrap_EmptyShapes(t *testing.T) {
	for _, body := range []string{``, `null`, `{}`, `{"data":null}`, `{"message":"ok"}`} {
		page, err := Unwrap[item](json.RawMessage(body))
		require.NoError(t, err, body)
		assert.NotNil(t, page.Items, body)
		assert.Empty(t, page.Items, body)
	}
}

func TestUnwrap_Malformed(t *testing.T) {
	for _, body := range []string{`"text"`, `42`, `[{"id":"not-a-number"}]`} {
		_, err := Unwrap[item](json.RawMessage(body))
		assert.ErrorIs(t, err, domain.ErrMalformedResponse, body)
	}
}

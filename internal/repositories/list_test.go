package repositories

import (
	"testing"

	"github.com/BradenHooton/emporium/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestResolveSort(t *testing.T) {
	tests := []struct {
		name     string
		query    models.ListQuery
		fields   fieldMap
		fallback string
		wantKey  string
		wantDesc bool
	}{
		{"known product field", models.ListQuery{SortField: "stock", SortOrder: models.SortDesc}, productSortFields, defaultProductSort, "product_stock", true},
		{"unknown field falls back", models.ListQuery{SortField: "password_hash"}, userSortFields, defaultUserSort, "email", false},
		{"empty field falls back", models.ListQuery{}, productSortFields, defaultProductSort, "product_price", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, desc := resolveSort(tt.query, tt.fields, tt.fallback)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestResolveSearch(t *testing.T) {
	assert.Equal(t, "name", resolveSearch(models.ListQuery{SearchField: "name", SearchValue: "ada"}, userSearchFields))
	assert.Equal(t, "", resolveSearch(models.ListQuery{SearchField: "name"}, userSearchFields), "empty value disables search")
	assert.Equal(t, "", resolveSearch(models.ListQuery{SearchField: "role", SearchValue: "admin"}, userSearchFields))
	assert.Equal(t, "product_name", resolveSearch(models.ListQuery{SearchField: "product_name", SearchValue: "mug"}, productSearchFields))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestSearchFilter(t *testing.T) {
	assert.Empty(t, searchFilter("", "x"))

	f := searchFilter("email", "a.b+c")
	assert.Contains(t, f, "email")
}

func TestObjectID_MalformedIsNotFound(t *testing.T) {
	_, err := objectID("not-hex")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

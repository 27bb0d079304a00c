package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	data, err := Default()
	require.NoError(t, err)

	ids := make([]string, 0, len(data.Categories))
	for _, c := range data.Categories {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"vegetariano", "sopa", "entrada", "plato-fuerte", "postre", "refrigerio"}, ids)
	assert.Len(t, data.Roles, 5)
	assert.NotEmpty(t, data.Recipes)
	assert.Equal(t, "superadmin@edueats.com", data.Admin.Email)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"YAML 语法错误", "roles: [\n"},
		{"分类重复", "categories:\n  - {id: sopa, name: Sopa}\n  - {id: sopa, name: Otra}\n"},
		{"菜谱引用未知分类", "categories:\n  - {id: sopa, name: Sopa}\nrecipes:\n  - {name: Flan, category: postre}\n"},
		{"热量为负", "categories:\n  - {id: sopa, name: Sopa}\nrecipes:\n  - {name: Caldo, category: sopa, calories: -1}\n"},
		{"管理员缺少 admin 角色", "admin: {email: a@b.com, password: longenough}\n"},
		{"管理员密码过短", "roles:\n  - {id: admin, name: Admin}\nadmin: {email: a@b.com, password: short}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestRecipeID_Deterministic(t *testing.T) {
	a := RecipeID("sopa", "Sopa de Verduras")
	b := RecipeID("sopa", "  sopa de verduras ")
	c := RecipeID("entrada", "Sopa de Verduras")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}

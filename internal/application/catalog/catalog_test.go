package catalog_test

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverano/inventario-core/internal/application/catalog"
	"github.com/dverano/inventario-core/internal/application/inventory"
	"github.com/dverano/inventario-core/internal/domain"
	"github.com/dverano/inventario-core/internal/domain/repository"
	"github.com/dverano/inventario-core/internal/infrastructure/jsonstore"
	"github.com/dverano/inventario-core/pkg/logger"
)

type fixture struct {
	store      repository.Store
	products   *inventory.ProductRegistry
	suppliers  *catalog.SupplierRegistry
	categories *catalog.CategoryRegistry
}

func newFixture() *fixture {
	store := jsonstore.New(afero.NewMemMapFs(), "data", logger.NewNop())
	mu := &sync.Mutex{}
	ledger := inventory.NewMovementLedger(mu, store, logger.NewNop())
	return &fixture{
		store:      store,
		products:   inventory.NewProductRegistry(mu, store, ledger, logger.NewNop()),
		suppliers:  catalog.NewSupplierRegistry(mu, store, logger.NewNop()),
		categories: catalog.NewCategoryRegistry(mu, store, logger.NewNop()),
	}
}

func TestSupplierAdd_NombreDuplicado(t *testing.T) {
	f := newFixture()

	s, err := f.suppliers.Add(catalog.CreateSupplierInput{Name: "Distribuidora Sur", Email: "ventas@sur.co"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.ID)
	assert.True(t, s.Active)

	_, err = f.suppliers.Add(catalog.CreateSupplierInput{Name: "distribuidora sur"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.suppliers.Add(catalog.CreateSupplierInput{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupplierIDs_MaxMasUno(t *testing.T) {
	f := newFixture()

	a, err := f.suppliers.Add(catalog.CreateSupplierInput{Name: "A"})
	require.NoError(t, err)
	b, err := f.suppliers.Add(catalog.CreateSupplierInput{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, a.ID+1, b.ID)

	require.NoError(t, f.suppliers.Delete("A"))
	c, err := f.suppliers.Add(catalog.CreateSupplierInput{Name: "C"})
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, c.ID, "el ID no puede repetirse entre proveedores vigentes")
}

// TestSupplierDelete_CascadeClear borrar un proveedor limpia la referencia en
// los productos: misma política que las categorías, sin referencias colgantes.
func TestSupplierDelete_CascadeClear(t *testing.T) {
	f := newFixture()

	_, err := f.suppliers.Add(catalog.CreateSupplierInput{Name: "Distribuidora Sur"})
	require.NoError(t, err)
	_, err = f.products.Add(inventory.CreateProductInput{
		Code: "P1", Name: "Café", Price: decimal.NewFromInt(5), Supplier: "Distribuidora Sur",
	})
	require.NoError(t, err)

	require.NoError(t, f.suppliers.Delete("Distribuidora Sur"))

	p, err := f.products.Get("P1")
	require.NoError(t, err)
	assert.Empty(t, p.Supplier)

	_, err = f.suppliers.Get("Distribuidora Sur")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplierUpdate_RenombraReferencias(t *testing.T) {
	f := newFixture()

	_, err := f.suppliers.Add(catalog.CreateSupplierInput{Name: "Sur"})
	require.NoError(t, err)
	_, err = f.suppliers.Add(catalog.CreateSupplierInput{Name: "Norte"})
	require.NoError(t, err)
	_, err = f.products.Add(inventory.CreateProductInput{
		Code: "P1", Name: "Café", Price: decimal.NewFromInt(5), Supplier: "Sur",
	})
	require.NoError(t, err)

	// Renombrar hacia un nombre ocupado es duplicado
	taken := "Norte"
	_, err = f.suppliers.Update("Sur", catalog.UpdateSupplierInput{Name: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	newName := "Distribuidora Sur SAS"
	s, err := f.suppliers.Update("Sur", catalog.UpdateSupplierInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, s.Name)

	p, err := f.products.Get("P1")
	require.NoError(t, err)
	assert.Equal(t, newName, p.Supplier)
}

func TestSupplierSearch(t *testing.T) {
	f := newFixture()

	_, err := f.suppliers.Add(catalog.CreateSupplierInput{Name: "Distribuidora Sur", Email: "ventas@sur.co", Phone: "3001234567"})
	require.NoError(t, err)
	_, err = f.suppliers.Add(catalog.CreateSupplierInput{Name: "Importadora Norte", Email: "info@norte.co"})
	require.NoError(t, err)

	byEmail, err := f.suppliers.Search("SUR.CO")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Distribuidora Sur", byEmail[0].Name)

	byPhone, err := f.suppliers.Search("300123")
	require.NoError(t, err)
	assert.Len(t, byPhone, 1)
}

func TestCategoryAdd_NombreDuplicado(t *testing.T) {
	f := newFixture()

	c, err := f.categories.Add(catalog.CreateCategoryInput{Name: "Bebidas", Color: "#2196F3"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.True(t, c.Active)

	_, err = f.categories.Add(catalog.CreateCategoryInput{Name: "BEBIDAS"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// TestCategoryDelete_CascadeClear misma política que proveedores.
func TestCategoryDelete_CascadeClear(t *testing.T) {
	f := newFixture()

	_, err := f.categories.Add(catalog.CreateCategoryInput{Name: "Bebidas"})
	require.NoError(t, err)
	_, err = f.products.Add(inventory.CreateProductInput{
		Code: "P1", Name: "Café", Price: decimal.NewFromInt(5), Category: "Bebidas",
	})
	require.NoError(t, err)
	_, err = f.products.Add(inventory.CreateProductInput{
		Code: "P2", Name: "Sal", Price: decimal.NewFromInt(2), Category: "Despensa",
	})
	require.NoError(t, err)

	require.NoError(t, f.categories.Delete("Bebidas"))

	p1, err := f.products.Get("P1")
	require.NoError(t, err)
	assert.Empty(t, p1.Category)

	// Las demás referencias no se tocan
	p2, err := f.products.Get("P2")
	require.NoError(t, err)
	assert.Equal(t, "Despensa", p2.Category)
}

func TestCategoryGetByID(t *testing.T) {
	f := newFixture()

	c, err := f.categories.Add(catalog.CreateCategoryInput{Name: "Bebidas"})
	require.NoError(t, err)

	got, err := f.categories.GetByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", got.Name)

	_, err = f.categories.GetByID(99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package jsonstore_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverano/inventario-core/internal/domain/entity"
	"github.com/dverano/inventario-core/internal/infrastructure/jsonstore"
	"github.com/dverano/inventario-core/pkg/logger"
)

func newStore(fs afero.Fs) *jsonstore.Store {
	return jsonstore.New(fs, "data", logger.NewNop())
}

func TestLoad_SinArchivosDevuelveVacio(t *testing.T) {
	s := newStore(afero.NewMemMapFs())

	products, err := s.LoadProducts()
	require.NoError(t, err)
	assert.Empty(t, products)

	movements, err := s.LoadMovements()
	require.NoError(t, err)
	assert.Empty(t, movements)

	cfg, err := s.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSettings(), cfg)

	assert.Empty(t, s.Warnings(), "la ausencia de archivos no es un incidente")
}

func TestSave_CreaDirectorioYPersiste(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newStore(fs)

	now := time.Now().Truncate(time.Second)
	in := []entity.Product{{
		Code:      "P1",
		Name:      "Café",
		Price:     decimal.NewFromFloat(5.50),
		Quantity:  10,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	require.NoError(t, s.SaveProducts(in))

	exists, err := afero.Exists(fs, "data/products.json")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := s.LoadProducts()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "P1", got[0].Code)
	assert.True(t, got[0].Price.Equal(in[0].Price))
	assert.True(t, got[0].CreatedAt.Equal(now))
}

func TestSave_ReemplazaLaColeccionCompleta(t *testing.T) {
	s := newStore(afero.NewMemMapFs())

	require.NoError(t, s.SaveMovements([]entity.Movement{
		{ID: 1, Type: entity.MovementTypeIn, ProductCode: "P1", Quantity: 5, Date: time.Now()},
		{ID: 2, Type: entity.MovementTypeOut, ProductCode: "P1", Quantity: 2, Date: time.Now()},
	}))
	require.NoError(t, s.SaveMovements([]entity.Movement{
		{ID: 1, Type: entity.MovementTypeIn, ProductCode: "P2", Quantity: 7, Date: time.Now()},
	}))

	got, err := s.LoadMovements()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "P2", got[0].ProductCode)
}

func TestSettings_IdaYVuelta(t *testing.T) {
	s := newStore(afero.NewMemMapFs())

	cfg := entity.DefaultSettings()
	cfg.LowStockThreshold = 9
	cfg.Currency = "USD"
	require.NoError(t, s.SaveSettings(cfg))

	got, err := s.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

// TestLoad_ArchivoCorrupto un documento ilegible no tumba la carga: se usa el
// valor por defecto y el incidente queda registrado en Warnings.
func TestLoad_ArchivoCorrupto(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "data/products.json", []byte("{no es una lista"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "data/settings.json", []byte("[]"), 0o644))
	s := newStore(fs)

	products, err := s.LoadProducts()
	require.NoError(t, err)
	assert.Empty(t, products)

	cfg, err := s.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSettings(), cfg)

	warnings := s.Warnings()
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "products.json")
	assert.Contains(t, warnings[1], "settings.json")
}

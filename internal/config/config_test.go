package config

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsDefaults(t *testing.T) {
	t.Setenv("RUN_ADDRESS", "")
	t.Setenv("CATALOG_FILE", "")
	t.Setenv("STRICT_PRICE", "")

	o := NewOptions()
	o.parse(flag.NewFlagSet("test", flag.ContinueOnError), nil)

	assert.Equal(t, ":8080", o.RunAddr())
	assert.Equal(t, "productos.json", o.CatalogFile())
	assert.Equal(t, "user_data.json", o.UserDataFile())
	assert.Equal(t, "@daily", o.BackupSchedule())
	assert.False(t, o.StrictPrice())
	assert.Equal(t, 10, o.LowStockThreshold())
	assert.True(t, o.WatchCatalog())
}

func TestOptionsEnvAndFlags(t *testing.T) {
	t.Setenv("CATALOG_FILE", "/var/lib/foodwizz/productos.json")
	t.Setenv("STRICT_PRICE", "true")
	t.Setenv("LOW_STOCK_THRESHOLD", "not-a-number")
	t.Setenv("RUN_ADDRESS", ":9000")

	o := NewOptions()
	o.parse(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-a", ":7000", "-s", ""})

	assert.Equal(t, "/var/lib/foodwizz/productos.json", o.CatalogFile())
	assert.True(t, o.StrictPrice())
	assert.Equal(t, 10, o.LowStockThreshold())
	assert.Equal(t, ":7000", o.RunAddr())
	assert.Equal(t, "", o.BackupSchedule())
}

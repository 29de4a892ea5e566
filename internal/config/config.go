package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Options struct {
	runAddr           string
	logLevel          string
	logFile           string
	dataBaseDSN       string
	migrationsDir     string
	catalogFile       string
	userDataFile      string
	backupDir         string
	backupSchedule    string
	strictPrice       bool
	lowStockThreshold int
	watchCatalog      bool
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags handles command line arguments
// and stores their values in the corresponding variables.
func (o *Options) ParseFlags() {
	o.parse(flag.CommandLine, os.Args[1:])
}

func (o *Options) parse(fs *flag.FlagSet, args []string) {
	// Load environment variables from the .env file
	loadEnvFile()

	// Override variable values with values from command line flags
	fs.StringVar(&o.runAddr, "a", getEnvOrDefault("RUN_ADDRESS", ":8080"), "address and port to run server")
	fs.StringVar(&o.logLevel, "l", getEnvOrDefault("LOG_LEVEL", "debug"), "log level")
	fs.StringVar(&o.logFile, "o", getEnvOrDefault("LOG_FILE", ""), "rotated log file, empty for stdout only")
	fs.StringVar(&o.dataBaseDSN, "d", getEnvOrDefault("DATABASE_URI", ""), "database connection string for the catalog mirror")
	fs.StringVar(&o.migrationsDir, "m", getEnvOrDefault("MIGRATIONS_DIR", "migrations"), "database migrations directory")
	fs.StringVar(&o.catalogFile, "f", getEnvOrDefault("CATALOG_FILE", "productos.json"), "catalog JSON file")
	fs.StringVar(&o.userDataFile, "u", getEnvOrDefault("USER_DATA_FILE", "user_data.json"), "account settings JSON file")
	fs.StringVar(&o.backupDir, "b", getEnvOrDefault("BACKUP_DIR", "backups"), "catalog backup directory")
	fs.StringVar(&o.backupSchedule, "s", getEnvOrDefault("BACKUP_SCHEDULE", "@daily"), "cron schedule for catalog backups, empty to disable")
	fs.BoolVar(&o.strictPrice, "strict", getEnvBool("STRICT_PRICE", false), "reject products priced at zero")
	fs.IntVar(&o.lowStockThreshold, "low", getEnvInt("LOW_STOCK_THRESHOLD", 10), "stock level below which a product counts as low")
	fs.BoolVar(&o.watchCatalog, "w", getEnvBool("WATCH_CATALOG", true), "reload the catalog when the file is edited externally")

	// parse the arguments passed to the server into registered variables
	if err := fs.Parse(args); err != nil {
		log.Printf("failed to parse flags: %v", err)
	}
}

func (o *Options) RunAddr() string {
	return o.runAddr
}

func (o *Options) LogLevel() string {
	return o.logLevel
}

func (o *Options) LogFile() string {
	return o.logFile
}

func (o *Options) DataBaseDSN() string {
	return o.dataBaseDSN
}

func (o *Options) MigrationsDir() string {
	return o.migrationsDir
}

func (o *Options) CatalogFile() string {
	return o.catalogFile
}

func (o *Options) UserDataFile() string {
	return o.userDataFile
}

func (o *Options) BackupDir() string {
	return o.backupDir
}

func (o *Options) BackupSchedule() string {
	return o.backupSchedule
}

func (o *Options) StrictPrice() bool {
	return o.strictPrice
}

func (o *Options) LowStockThreshold() int {
	return o.lowStockThreshold
}

func (o *Options) WatchCatalog() bool {
	return o.watchCatalog
}

// getEnvOrDefault reads an environment variable or returns a default value if the variable is not set or is empty.
func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnvOrDefault(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		log.Printf("ignoring invalid %s: %v", key, err)
		return defaultValue
	}
	return v
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnvOrDefault(key, strconv.Itoa(defaultValue)))
	if err != nil {
		log.Printf("ignoring invalid %s: %v", key, err)
		return defaultValue
	}
	return v
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile() {
	// Determine the path to the .env file relative to the current working directory
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	envPath := filepath.Join(cwd, "..", "..", ".env")

	// Load environment variables from the .env file
	err = godotenv.Load(envPath)
	if err != nil {
		log.Printf("No .env file found at %s, proceeding without it", envPath)
	} else {
		log.Printf(".env file loaded from %s", envPath)
	}
}

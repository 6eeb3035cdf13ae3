package cmd

// Config carries the runtime settings of the dispatch service.
type Config struct {
	HTTPPort         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSslMode        string
	DispatchRadiusKm float64
}

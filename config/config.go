package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Serving   Serving   `mapstructure:"serving" validate:"required"`
	Logging   Logging   `mapstructure:"logging" validate:"required"`
	Stimulus  Stimulus  `mapstructure:"stimulus" validate:"required"`
	Collector Collector `mapstructure:"collector" validate:"required"`
	Reporting Reporting `mapstructure:"reporting" validate:"required"`
	Session   Session   `mapstructure:"session"`
}

type Serving struct {
	Port *int `mapstructure:"port" validate:"required,gt=0,lte=65535"`
	// ShareBaseURL is the origin and path share links are built on.
	ShareBaseURL *string `mapstructure:"shareBaseURL" validate:"required,url"`
}

type Logging struct {
	Driver *string `mapstructure:"driver" validate:"required,oneof=noop stdout influxdb"`
	// InfluxDB must be set if Driver is influxdb.
	InfluxDB *InfluxDB `mapstructure:"influxdb"`
}

type InfluxDB struct {
	Host   *string `mapstructure:"host" validate:"required"`
	Token  *string `mapstructure:"token" validate:"required"`
	Org    *string `mapstructure:"org" validate:"required"`
	Bucket *string `mapstructure:"bucket" validate:"required"`
}

type Stimulus struct {
	MinDelayMs *int `mapstructure:"minDelayMs" validate:"required,gte=0"`
	MaxDelayMs *int `mapstructure:"maxDelayMs" validate:"required,gt=0"`
	// Seed of zero seeds the random source from the wall clock.
	Seed *uint64 `mapstructure:"seed" validate:"required"`
}

type Collector struct {
	Driver *string `mapstructure:"driver" validate:"required,oneof=array tachymeter"`
	Window *int    `mapstructure:"window" validate:"required,gt=0"`
}

type Reporting struct {
	IntervalSeconds *int `mapstructure:"intervalSeconds" validate:"required,gt=0"`
}

type Session struct {
	// ShareURL is an optional address whose token seeds the initial session.
	ShareURL *string `mapstructure:"shareURL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Serving.Port", 8080)
	v.SetDefault("Serving.ShareBaseURL", "http://localhost:8080/")
	v.SetDefault("Logging.Driver", "noop")

	v.SetDefault("Stimulus.MinDelayMs", 400)
	v.SetDefault("Stimulus.MaxDelayMs", 4000)
	v.SetDefault("Stimulus.Seed", 0)

	v.SetDefault("Collector.Driver", "tachymeter")
	v.SetDefault("Collector.Window", 100)

	v.SetDefault("Reporting.IntervalSeconds", 10)
}

// ReadConfig reads config.yaml from the working directory or /app, falling
// back to defaults if neither exists. Invalid configuration exits the
// process.
func ReadConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("reaction")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("no config.yaml found in . or /app; using defaults")
		} else {
			log.Fatalf("error when reading config file: err = %s", err)
		}
	}

	config, err := Load(v)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			log.Printf("encountered validation errors:\n")
			for _, err := range validationErrors {
				fmt.Printf("\t%s\n", err.Error())
			}
		} else {
			log.Printf("unable to load config: err = %s", err)
		}

		fmt.Println("Check your configuration file and try again.")
		os.Exit(1)
	}

	return config
}

// Load applies defaults to v, then unmarshals and validates it.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error occured while reading configuration: err = %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		return nil, err
	}

	if *config.Stimulus.MaxDelayMs <= *config.Stimulus.MinDelayMs {
		return nil, fmt.Errorf("expected stimulus.maxDelayMs > stimulus.minDelayMs; got minDelayMs = %d, maxDelayMs = %d", *config.Stimulus.MinDelayMs, *config.Stimulus.MaxDelayMs)
	}
	if *config.Logging.Driver == "influxdb" && config.Logging.InfluxDB == nil {
		return nil, errors.New("expected logging.influxdb to be set when logging.driver is influxdb")
	}

	return &config, nil
}

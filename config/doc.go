// Package config loads vlmscribe configuration with Viper.
//
// Values are read from a config.yml file, then overridden by variables from an
// optional .env file and the process environment. Environment keys are mapped
// onto nested config keys, so OPENAI_API_KEY populates openai.api_key and
// HISTORY_BACKEND populates history.backend.
package config

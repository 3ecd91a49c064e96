// Package utils hosts the ambient helpers of the installer CLI: the zap
// LoggerFactory and the Viper-backed ConfigurationLoader.
package utils

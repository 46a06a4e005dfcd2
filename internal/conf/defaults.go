// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "depresjon-go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "depresjon.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)
	viper.SetDefault("main.log.rotationday", time.Sunday)

	viper.SetDefault("dataset.dir", "data/")
	viper.SetDefault("dataset.scoresfile", "scores.csv")
	viper.SetDefault("dataset.archiveurl", "https://datasets.simula.no/downloads/depresjon/depresjon.zip")
	viper.SetDefault("dataset.skipmissing", false)

	viper.SetDefault("analysis.minsamples", 0)
	viper.SetDefault("analysis.workers", 0)
	viper.SetDefault("analysis.baseline.threshold", 175.0)
	viper.SetDefault("analysis.baseline.sensitivity", 1.0)
	viper.SetDefault("analysis.baseline.scale", 50.0)

	viper.SetDefault("evaluation.folds", 5)
	viper.SetDefault("evaluation.epsilon", 1e-7)

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8080")

	viper.SetDefault("webserver.log.enabled", false)
	viper.SetDefault("webserver.log.path", "webserver.log")
	viper.SetDefault("webserver.log.rotation", RotationDaily)
	viper.SetDefault("webserver.log.maxsize", 1048576)
	viper.SetDefault("webserver.log.rotationday", time.Sunday)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.listen", "0.0.0.0:8090")

	viper.SetDefault("output.file.enabled", true)
	viper.SetDefault("output.file.path", "output/")
	viper.SetDefault("output.file.type", "table")

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "depresjon.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "depresjon")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "depresjon")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", 3306)
}

package core

type Conf struct {
	Version            string `long:"version" description:"version of the simulator" env:"QUBOX_SIM_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"QUBOX_SIM_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"QUBOX_SIM_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"QUBOX_SIM_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"QUBOX_SIM_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"QUBOX_SIM_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"QUBOX_SIM_LOG_ROTATION_MAX_DAYS"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"QUBOX_SIM_SETTING_PATH"`
	MacroPath          string `long:"macro-path" description:"custom gate macro file path" env:"QUBOX_SIM_MACRO_PATH"`
	Seed               int64  `long:"seed" description:"measurement RNG seed (0 uses the clock)" env:"QUBOX_SIM_SEED"`
}

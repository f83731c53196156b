package commands

const (
	_etc = "/usr/local/etc/yated"

	DEFAULT_CONFIG  = _etc + "/sheets.toml"
	DEFAULT_SECRETS = _etc + "/sheets/secrets.toml"
)

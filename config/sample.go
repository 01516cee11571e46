package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lemconn/exkit"
)

// Sample 示例配置，每个支持的交易所一条空凭证记录
func Sample() *Config {
	cfg := Default()
	for _, name := range exkit.SupportedExchanges() {
		ex := ExchangeConfig{Timeout: DefaultTimeout}
		if passwordRequired[name] {
			ex.Password = "<passphrase>"
		}
		cfg.Exchanges[name] = ex
	}
	return cfg
}

// Marshal 以 YAML 输出配置
func (c *Config) Marshal() ([]byte, error) {
	var node yaml.Node
	if err := node.Encode(c); err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	if len(node.Content) > 0 {
		node.HeadComment = "exkit configuration, environment variables use the EXKIT_ prefix\n" +
			"e.g. EXKIT_EXCHANGES_BINANCE_API_KEY or BINANCE_API_KEY"
	}
	return yaml.Marshal(&node)
}

// WriteSample 写出示例配置，文件已存在且 force 为 false 时报错
func WriteSample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("config %s already exists", path)
		}
	}
	data, err := Sample().Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create dir %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}
	return nil
}

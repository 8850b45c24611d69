package core

import (
	"fmt"

	"go.uber.org/zap"
)

var Version = "0.1.0"

func SetInfo(conf *Conf) {
	if conf.Version != "" {
		Version = conf.Version
	}
	zap.L().Info(fmt.Sprintf("simcore version:%s", Version))
}

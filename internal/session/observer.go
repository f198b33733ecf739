package session

import (
	"github.com/stamp/pkg/mapping"
	"github.com/stamp/pkg/utils"
)

// LoggingObserver logs every member insertion at debug level.
func LoggingObserver(logger utils.Logger) mapping.Observer {
	return mapping.ObserverFunc(func(class string, kind mapping.MemberKind, id string) {
		switch kind {
		case mapping.KindField:
			logger.WithField("class", class).Debug("+ Added Field: %s", id)
		default:
			logger.WithField("class", class).Debug("+ Added Method: %s", id)
		}
	})
}

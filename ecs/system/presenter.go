package system

import (
	"github.com/milk9111/lightfall/common"
	"github.com/milk9111/lightfall/ecs"
	"github.com/milk9111/lightfall/logger"
	"github.com/sirupsen/logrus"
)

// LogPresenter reports every presentation request at debug level. The
// headless simulator uses it in place of a renderer.
type LogPresenter struct {
	// OnLoadScene, when set, is called after a scene change is logged.
	OnLoadScene func(name string)
}

func (p *LogPresenter) log() *logrus.Entry {
	return logger.Log.WithField("system", "presenter")
}

func (p *LogPresenter) Animate(e ecs.Entity, trigger string) {
	p.log().WithFields(logrus.Fields{"entity": e.String(), "trigger": trigger}).Debug("animate")
}

func (p *LogPresenter) Effect(name string, at common.Vec3) {
	p.log().WithFields(logrus.Fields{"effect": name, "x": at.X, "y": at.Y, "z": at.Z}).Debug("effect")
}

func (p *LogPresenter) Sound(name string) {
	p.log().WithField("sound", name).Debug("sound")
}

func (p *LogPresenter) Overlay(layer string, alpha float64) {
	p.log().WithFields(logrus.Fields{"layer": layer, "alpha": alpha}).Debug("overlay")
}

func (p *LogPresenter) Camera(fov float64, focus common.Vec3) {
	p.log().WithFields(logrus.Fields{"fov": fov, "x": focus.X, "y": focus.Y}).Debug("camera")
}

func (p *LogPresenter) LoadScene(name string) {
	p.log().WithField("scene", name).Info("load scene")
	if p.OnLoadScene != nil {
		p.OnLoadScene(name)
	}
}

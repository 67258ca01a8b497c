/*Package metrics wraps datadog-go to faciliate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- Error: *.err
- Rejection: *.reject
*/
package metrics

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/x-xyz/goroyalty/base/env"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	// default: true
	withPodName bool
	sampleRate  float64
}

// WithoutPodName drops the pod tag, pod names produce a lot of custom metrics
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// WithSampleRate sets the firing rate in [0, 1], 1 means always send
func WithSampleRate(rate float64) Option {
	return func(o *opt) {
		o.sampleRate = rate
	}
}

// New creates a metric client with package name as prefix
func New(pkgName string, options ...Option) Service {
	o := opt{
		withPodName: true,
		sampleRate:  1,
	}
	for _, option := range options {
		option(&o)
	}

	ddTags := []string{
		// using host removes all tags associated with host
		// ref: https://docs.datadoghq.com/developers/dogstatsd/data_types/#host-tag-key
		"host:",
		"env:" + viper.GetString("env_name"),
		"app:" + viper.GetString("app_name"),
	}
	if o.withPodName {
		ddTags = append(ddTags, "pod:"+env.PodName())
	}

	return &Metrics{
		pkgName:    pkgName,
		sampleRate: o.sampleRate,
		datadog:    DDMetrics{ddTags: ddTags},
	}
}

// Metrics prefixes keys with the package name and forwards to datadog
type Metrics struct {
	pkgName    string
	sampleRate float64
	datadog    DDMetrics
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

// bumpSumPanic counts panics raised by inconsistent tagging
func (mt *Metrics) bumpSumPanic(key string, tags []string) {
	if err := recover(); err != nil {
		mt.datadog.BumpSum(key, 1, 1, "tag", mt.key(strings.Join(tags, "#")))
	}
}

func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.bumpSumPanic("bumpavg.panic", tags)
	mt.datadog.BumpAvg(mt.key(key), val, mt.sampleRate, tags...)
}

func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.bumpSumPanic("bumpsum.panic", tags)
	mt.datadog.BumpSum(mt.key(key), val, mt.sampleRate, tags...)
}

func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.bumpSumPanic("bumphistogram.panic", tags)
	mt.datadog.BumpHistogram(mt.key(key), val, mt.sampleRate, tags...)
}

// BumpTime starts a timer and returns a value on which End() records the
// elapsed time:
//
//     defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) (ender Ender) {
	defer func() {
		if err := recover(); err != nil {
			mt.datadog.BumpSum("bumptime.panic", 1, 1, "tag", mt.key(key))
			ender = noopEnder{}
		}
	}()
	return &timeTracker{
		ddEnd: mt.datadog.BumpTime(mt.key(key), mt.sampleRate, tags...),
		panicHandler: func() {
			mt.datadog.BumpSum("bumptime.panic", 1, 1, "tag", mt.key(key))
		},
	}
}

type noopEnder struct{}

func (noopEnder) End() {}

type timeTracker struct {
	ddEnd        Ender
	panicHandler func()
}

func (t *timeTracker) End() {
	defer func() {
		if err := recover(); err != nil {
			t.panicHandler()
		}
	}()
	t.ddEnd.End()
}

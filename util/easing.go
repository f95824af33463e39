// Package util holds small helpers shared by the animation packages.
package util

import (
	"strings"

	"github.com/fogleman/ease"
)

// EaseFunc maps linear progress in [0, 1] to eased progress.
type EaseFunc func(t float64) float64

var easings = map[string]EaseFunc{
	"linear": ease.Linear,

	"in":    ease.InQuad,
	"out":   ease.OutQuad,
	"inout": ease.InOutQuad,

	"inquad":    ease.InQuad,
	"outquad":   ease.OutQuad,
	"inoutquad": ease.InOutQuad,

	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,

	"inquart":    ease.InQuart,
	"outquart":   ease.OutQuart,
	"inoutquart": ease.InOutQuart,

	"inquint":    ease.InQuint,
	"outquint":   ease.OutQuint,
	"inoutquint": ease.InOutQuint,

	"insine":    ease.InSine,
	"outsine":   ease.OutSine,
	"inoutsine": ease.InOutSine,

	"inexpo":    ease.InExpo,
	"outexpo":   ease.OutExpo,
	"inoutexpo": ease.InOutExpo,

	"incirc":    ease.InCirc,
	"outcirc":   ease.OutCirc,
	"inoutcirc": ease.InOutCirc,

	"inelastic":    ease.InElastic,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,

	"inback":    ease.InBack,
	"outback":   ease.OutBack,
	"inoutback": ease.InOutBack,

	"inbounce":    ease.InBounce,
	"outbounce":   ease.OutBounce,
	"inoutbounce": ease.InOutBounce,
}

// EasingName folds the spellings generators use ("easeInOutQuad",
// "ease-in-out", "in_out_quad") onto one key.
func EasingName(name string) string {
	n := strings.ToLower(name)
	n = strings.NewReplacer("-", "", "_", "", " ", "").Replace(n)
	n = strings.TrimPrefix(n, "ease")
	if n == "" {
		return "linear"
	}
	return n
}

// Easing looks up an easing curve by name. Unknown names fall back to linear.
func Easing(name string) EaseFunc {
	if f, ok := easings[EasingName(name)]; ok {
		return f
	}
	return ease.Linear
}

// KnownEasing reports whether name resolves to a curve other than the fallback.
func KnownEasing(name string) bool {
	_, ok := easings[EasingName(name)]
	return ok
}

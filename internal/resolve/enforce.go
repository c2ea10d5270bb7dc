package resolve

import (
	"fmt"
	"strings"

	"spriteforge/internal/build"
)

// EnforceBodyVariant reconciles head colour with body colour after
// resolution. Body colour is authoritative: it is resolved first and
// always required, while the head variant may have been chosen
// independently. When both layers exist and disagree, the head variant
// is overwritten and the override is recorded on the most recent
// head-related trace entry. When either layer is absent this is a
// no-op; absence is the validator's complaint, not ours.
//
// This function is the only place in the pipeline allowed to mutate a
// resolved Build or its Trace.
func EnforceBodyVariant(b *build.Build, trace Trace) {
	body := b.BodyLayer()
	head := b.HeadLayer()
	if body == nil || head == nil || body.Variant == head.Variant {
		return
	}

	prior := head.Variant
	head.Variant = body.Variant

	note := fmt.Sprintf("head_variant_overridden_to_body:from=%s:to=%s", prior, body.Variant)
	for i := len(trace) - 1; i >= 0; i-- {
		if trace[i].Category == "head" || strings.HasPrefix(trace[i].ResolvedPath, build.HeadNamespace) {
			trace[i].Notes = append(trace[i].Notes, note)
			return
		}
	}
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/achilleasa/mlt-pathtracer/render"
)

// matchesToken reports whether token is a case-insensitive prefix of ref,
// so "-m bi,len" enables bidirectional and lens mutations without the
// caller having to spell either name out in full.
func matchesToken(token, ref string) bool {
	if token == "" || len(token) > len(ref) {
		return false
	}
	return strings.EqualFold(token, ref[:len(token)])
}

// parseMutations parses a comma-separated list of mutation name prefixes
// into the set of mutation kernels they enable. An unrecognized token is
// an error rather than a silent no-op.
func parseMutations(spec string) (render.EnabledMutations, error) {
	var result render.EnabledMutations
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		switch {
		case matchesToken(token, "newPathMutation"):
			result.NewPath = true
		case matchesToken(token, "lensPerturbation"):
			result.LensPerturbation = true
		case matchesToken(token, "multiChainPerturbation"):
			result.MultiChainPerturbation = true
		case matchesToken(token, "bidirectionalMutation"):
			result.BidirectionalMutation = true
		default:
			return render.EnabledMutations{}, fmt.Errorf("cmd: unknown mutation type %q", token)
		}
	}
	return result, nil
}

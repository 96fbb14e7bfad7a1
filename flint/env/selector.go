package env

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/tos-network/flint/flint/types"
)

// Signature renders the ABI signature of fn, e.g. "transfer(address,uint256)".
// Implicit parameters are not part of the ABI.
func Signature(fn *FunctionInformation) string {
	params := make([]string, 0, len(fn.Declaration.Signature.Parameters))
	for _, p := range fn.Declaration.Signature.Parameters {
		if p.IsImplicit {
			continue
		}
		params = append(params, abiTypeName(p.Type))
	}
	return fmt.Sprintf("%s(%s)", fn.Name(), strings.Join(params, ","))
}

// Selector returns the 4-byte dispatch selector of fn as 0x-prefixed hex.
func Selector(fn *FunctionInformation) string {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(Signature(fn)))
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(sum[:4])
}

func abiTypeName(t types.RawType) string {
	switch x := types.StripInout(t).(type) {
	case types.Basic:
		switch x.Kind {
		case types.Int:
			return "uint256"
		case types.Address:
			return "address"
		case types.Bool:
			return "bool"
		case types.String:
			return "string"
		}
	case types.Stdlib:
		if x.Identifier == "Wei" {
			return "uint256"
		}
	case types.Array:
		return abiTypeName(x.Elem) + "[]"
	case types.FixedSizeArray:
		return fmt.Sprintf("%s[%d]", abiTypeName(x.Elem), x.Size)
	}
	return t.Name()
}

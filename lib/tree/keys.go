package tree

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/benz9527/xtree/lib/infra"
)

// ParseKey converts text input into a key of type K. Numeric kinds are
// parsed strictly (no trailing garbage), a NaN or non-numeric text is
// rejected with ErrNonOrderableKey before any tree is touched.
func ParseKey[K infra.OrderedKey](text string) (K, error) {
	var key K
	s := strings.TrimSpace(text)
	if len(s) == 0 {
		return key, fmt.Errorf("%w: empty input", ErrNonOrderableKey)
	}

	rv := reflect.ValueOf(&key).Elem()
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, rv.Type().Bits())
		if err != nil {
			return key, parseKeyErr(s, err)
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(s, 10, rv.Type().Bits())
		if err != nil {
			return key, parseKeyErr(s, err)
		}
		rv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, rv.Type().Bits())
		if err != nil {
			return key, parseKeyErr(s, err)
		}
		rv.SetFloat(f)
		if infra.IsUnordered(key) {
			return *new(K), nonOrderableKey(s)
		}
	case reflect.String:
		rv.SetString(s)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[xtree] unknown ordered key kind")
	}
	return key, nil
}

func parseKeyErr(s string, err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		err = numErr.Err
	}
	return fmt.Errorf("%w: %q (%v)", ErrNonOrderableKey, s, err)
}

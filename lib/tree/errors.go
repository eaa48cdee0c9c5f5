package tree

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMode     = errors.New("[xtree] invalid tree mode")
	ErrNonOrderableKey = errors.New("[xtree] non-orderable key")

	errOrderViolation  = errors.New("[xtree] bst order violation")
	errAVLViolation    = errors.New("[xtree] avl balance violation")
	errAVLHeightStale  = errors.New("[xtree] avl cached height is stale")
	errRedViolation    = errors.New("[xtree] rbtree red violation")
	errBlackViolation  = errors.New("[xtree] rbtree black violation")
	errRootColor       = errors.New("[xtree] rbtree root is not black")
	errParentViolation = errors.New("[xtree] rbtree parent link violation")
)

func nonOrderableKey(key any) error {
	return fmt.Errorf("%w: %v", ErrNonOrderableKey, key)
}

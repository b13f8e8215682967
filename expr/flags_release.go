//go:build !symkitdebug

package expr

const strictFlags = false

//go:build symkitdebug

package expr

const strictFlags = true

//go:build !linux

package platform

var osResources = map[string]string{}

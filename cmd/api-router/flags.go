// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/pdiddy/api-router/pkg/types"
)

// apiValue is a flag holding an API name, given as its display name or
// slug. Bad names are rejected while flags are parsed.
type apiValue struct {
	api types.APIName
}

var _ pflag.Value = (*apiValue)(nil)

func (v *apiValue) String() string { return string(v.api) }

func (v *apiValue) Set(s string) error {
	if strings.TrimSpace(s) == "" {
		v.api = ""
		return nil
	}
	api, err := types.ParseAPISlug(s)
	if err != nil {
		return err
	}
	v.api = api
	return nil
}

func (v *apiValue) Type() string { return "api" }

// apiFlag registers an API-name flag on fs.
func apiFlag(fs *pflag.FlagSet, name, usage string) {
	fs.Var(&apiValue{}, name, usage)
}

// getAPI returns the API held by the named flag, or "" when unset.
func getAPI(fs *pflag.FlagSet, name string) types.APIName {
	f := fs.Lookup(name)
	if f == nil {
		return ""
	}
	if v, ok := f.Value.(*apiValue); ok {
		return v.api
	}
	return ""
}

package main

import "errors"

var errMissingJWTSecret = errors.New("JWTSECRET is required when AUTHPROVIDER=local")

// Package server exposes the catalog, clip pipeline, and relink matcher
// over a local HTTP API. Handlers are thin: decode the request, call one
// component, encode its result. DTOs live here, separated from the domain
// types they mirror.
package server

package handlers

import "expvar"

// authEvents counts auth outcomes; published under /debug/vars.
var authEvents = expvar.NewMap("auth_events")

// postEvents counts blog mutations.
var postEvents = expvar.NewMap("post_events")

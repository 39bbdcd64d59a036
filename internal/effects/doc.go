// Package effects holds the panel animations. Each variant has a params
// struct resolved from decoded anim.Values (absent fields take the variant's
// defaults), a constructor taking the shared read-only topology and a random
// source, and a Step method that only redraws when its delay timer fires.
package effects

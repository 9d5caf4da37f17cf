// Package pkg provides the core libraries for Easel's board canvas and image cache.
//
// # Overview
//
// Easel manages boards of expanded images: each node on a board was generated
// from a source image and stays visually tethered to it with a connector line.
// The pkg directory is organized into four main areas:
//
//  1. [canvas] - Domain logic (node lifecycle, positions, connector geometry)
//  2. [imagecache] - Content-addressed image storage with async resolution
//  3. [board] / [session] / [config] - Persistence and settings
//  4. [genimage] / [httputil] - Clients for the generation service
//
// # Architecture
//
// The typical data flow through Easel:
//
//	Generation service result (image URL)
//	         ↓
//	    [canvas] package (place node beside its source anchor)
//	         ↓
//	    [board] package (persist node records)
//	         ↓
//	    [imagecache] package (resolve URL to pixel content)
//	         ↓
//	    [render] package (DOT layout + SVG export)
//
// # Quick Start
//
// Place a node and compute its connector:
//
//	import (
//	    "github.com/easelkit/easel/pkg/canvas"
//	)
//
//	m := canvas.NewManager()
//	anchor := canvas.Rect{X: 100, Y: 50, W: 40, H: 40}
//	n, _ := m.Create("src-1", "https://cdn.example.com/out.png", "16:9", anchor)
//
//	segments := m.Connectors(canvas.StaticAnchors(map[string]canvas.Rect{
//	    "src-1": anchor,
//	}))
//	_ = n
//	_ = segments
//
// Resolve an image through the cache:
//
//	cache := imagecache.New(imagecache.NewFileStore(dir), nil, logger)
//	img := <-cache.Get(ctx, url)
//
// # Main Packages
//
// [canvas] owns node placement and connector geometry. [imagecache] resolves
// image locators to bytes, persisting by content hash so repeated loads skip
// the network. [board] serializes canvas state to JSON documents backed by the
// filesystem or MongoDB. [genimage] talks to the generation API. [render]
// exports boards as SVG via Graphviz. [errors], [httputil], and
// [observability] are shared plumbing used throughout.
package pkg

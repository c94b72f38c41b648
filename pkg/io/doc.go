// Package io reads and writes graph documents and configuration files.
//
// # Documents
//
// A document describes one graph in JSON or YAML:
//
//	{
//	  "nodes": [
//	    {"id": "lb", "label": "Load Balancer"},
//	    {"id": "api", "style": {"shape": "rectangle", "font_size": 16}},
//	    {"id": "db", "width": 120, "height": 80}
//	  ],
//	  "edges": [
//	    {"source": "lb", "target": "api"},
//	    {"source": "api", "target": "db", "arrow": "double"}
//	  ],
//	  "containers": [
//	    {"id": "backend", "label": "Backend", "members": ["api", "db"]}
//	  ],
//	  "config": {"layout": "dagre", "direction": "left-to-right"}
//	}
//
// Node width and height are optional; missing sizes are estimated from the
// label before layout. Container members may name nodes or other containers.
// A container's optional kind is container (the default), group, semantic or
// flow; flow lines its members up in a row.
// Positions in an input document are ignored: they are outputs.
//
// [Write] emits the same document with geometry filled in: node x, y,
// width and height, container bounds, and edge start and end points.
//
// # Configuration files
//
// [ReadConfigFile] reads layout options from a TOML file using the same keys
// as the document's config block:
//
//	layout = "force"
//	iterations = 500
//	seed = 7
//
// Unknown keys are rejected.
package io

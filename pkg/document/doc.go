// Package document reads and writes the JSON description of a diagram.
//
// # JSON Format
//
//	{
//	  "direction": "vertical",
//	  "nodes": [
//	    {"id": "model"},
//	    {
//	      "id": "conv",
//	      "parent": "model",
//	      "header": [{"content": "Conv"}, {"content": "2D", "classes": ["node-item-type"]}],
//	      "arguments": [
//	        {"name": "kernel", "value": "3x3", "separator": " = "},
//	        {"name": "weights", "nodes": [{"header": [{"content": "W"}]}]}
//	      ]
//	    }
//	  ],
//	  "edges": [{"from": "input", "to": "conv", "label": "1x3x224x224"}]
//	}
//
// A node with children (other nodes naming it as "parent") is drawn as a
// cluster. Setting any parent makes the graph compound. Argument content is
// a text "value", a single nested "node" or a list of "nodes".
//
// Use [ReadJSON] or [ImportJSON] to decode, [Document.Graph] to build a
// diagram.Graph, and [WriteJSON] or [ExportJSON] to write a document back.
package document

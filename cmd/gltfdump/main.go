package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/mogaika/gltf"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.Indent = "  "
}

func main() {
	var in, out string
	var validate, dump, buffers bool
	flag.StringVar(&in, "in", "", "Input .gltf or .glb file")
	flag.StringVar(&out, "out", "", "Optional output file, .gltf or .glb decides the container")
	flag.BoolVar(&validate, "validate", true, "Run structural validation after decode")
	flag.BoolVar(&dump, "dump", false, "Dump the whole document instead of the summary")
	flag.BoolVar(&buffers, "buffers", true, "Load buffer payloads (needed for validation of sparse data)")
	flag.Parse()

	if in == "" {
		flag.PrintDefaults()
		return
	}

	data, err := os.ReadFile(in)
	if err != nil {
		log.Fatal(err)
	}

	opts := &gltf.Options{BasePath: filepath.Dir(in)}
	doc, err := gltf.Decode(data, opts)
	if err != nil {
		log.Fatalf("[gltfdump] Decode failed: %v", err)
	}
	if buffers {
		if err := doc.LoadBuffers(opts); err != nil {
			log.Printf("[gltfdump] Buffer loading failed: %v", err)
		}
	}
	if validate {
		if err := doc.Validate(); err != nil {
			log.Fatalf("[gltfdump] Validation failed: %v", err)
		}
	}

	if dump {
		fmt.Println(spewConfig.Sdump(doc))
	} else {
		printSummary(doc)
	}

	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		enc := gltf.NewEncoder(f)
		enc.AsBinary = strings.EqualFold(filepath.Ext(out), ".glb")
		if err := enc.Encode(doc); err != nil {
			log.Fatalf("[gltfdump] Encode failed: %v", err)
		}
		log.Printf("[gltfdump] Wrote %s", out)
	}
}

func printSummary(doc *gltf.Document) {
	fmt.Printf("asset: version %s generator %q\n", doc.Asset.Version, doc.Asset.Generator)
	fmt.Printf("buffers %d, views %d, accessors %d, images %d, textures %d, materials %d\n",
		len(doc.Buffers), len(doc.BufferViews), len(doc.Accessors),
		len(doc.Images), len(doc.Textures), len(doc.Materials))
	fmt.Printf("meshes %d, nodes %d, scenes %d, skins %d, animations %d, cameras %d, lights %d\n",
		len(doc.Meshes), len(doc.Nodes), len(doc.Scenes),
		len(doc.Skins), len(doc.Animations), len(doc.Cameras), len(doc.Lights))
	for i, m := range doc.Meshes {
		for j, p := range m.Primitives {
			var sems []string
			for sem := range p.Attributes {
				sems = append(sems, sem)
			}
			fmt.Printf("  mesh %d %q primitive %d: mode %d attributes %s\n",
				i, m.Name, j, p.DrawMode(), strings.Join(sems, " "))
		}
	}
	for i, n := range doc.Nodes {
		if n.Parent() == nil {
			fmt.Printf("  root node %d %q world %v\n", i, n.Name, n.WorldTransform())
		}
	}
}

// Package glbind generates Go OpenGL bindings from a typed API registry.
//
// The generator partitions the registry's commands and enumerants into
// version-layered profile artifacts and per-extension artifacts, promotes every
// command owned by more than one artifact into a single shared definition, and
// renders one Go package per artifact.
//
// # Architecture Overview
//
// The repository is organized into packages with distinct responsibilities:
//
//	glbind/
//	├── registry/        Typed registry model and YAML snapshot loader
//	├── layout/          Artifact names: version/profile table, preludes, extensions, types
//	├── symtab/          Symbol table: one entry per command and enumerant, owner sets
//	├── resolve/         Replays feature and extension require/remove directives
//	├── partition/       Groups finalized symbols into artifacts
//	├── synth/           One binding per command, shared promotion, documentation links
//	├── assemble/        Modules: exports, necessary imports, declaration bodies
//	├── aggregate/       Vendor groups, the Ext umbrella and meta-extensions
//	├── generator/       Pipeline orchestration
//	├── render/          Go source rendering and idempotent writing
//	├── glproc/          Runtime imported by generated code: lazy entry points, extension checks
//	├── config/          glgen.yaml
//	├── errors/          Structured error types
//	└── cmd/glgen/       Command line interface
//
// # Quick Start
//
// Run the pipeline over a registry snapshot and render it:
//
//	reg, err := registry.Load("gl.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := generator.Generate(reg, generator.Options{Strict: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := &render.Renderer{ImportRoot: "example.com/gl"}
//	files, err := r.Render(res)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_, err = render.Write("gl", files)
//
// # Artifact Layout
//
// Desktop versions before 3.2 land in StandardXY and also in Core32, so every
// pre-3.2 symbol is shared. From 3.2 on, core requirements land in CoreXY and
// symbols removed from core fall back to CompatibilityXY. GLES versions land
// in EmbeddedXY. Each extension gets Ext.<Vendor>.<Name>; Ext.<Vendor> and Ext
// re-export them.
//
// # Determinism
//
// The same registry and options always yield byte-identical output: every
// stage iterates in registry declaration order or sorted order.
//
// # Thread Safety
//
// The pipeline packages hold no shared state apart from their loggers, which
// must be configured before use. The glproc runtime is safe for concurrent use.
package glbind

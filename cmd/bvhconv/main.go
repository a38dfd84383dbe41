package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/bvhconv/bvh"
	"github.com/binzume/bvhconv/converter"
)

func defaultOutputFile(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	base := input[0 : len(input)-len(ext)]
	if ext == ".bvh" {
		return base + ".glb"
	}
	return input + ".glb"
}

func findConfig(input, output, confFile string) string {
	if confFile != "" {
		return confFile
	}
	confFile = input[0:len(input)-len(filepath.Ext(input))] + ".yaml"
	if _, err := os.Stat(confFile); err == nil {
		return confFile
	}
	if strings.ToLower(filepath.Ext(output)) == ".vmd" {
		execPath, _ := os.Executable()
		confFile = filepath.Join(filepath.Dir(execPath), "presets/mmd_ja.yaml")
		if _, err := os.Stat(confFile); err == nil {
			return confFile
		}
	}
	return ""
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.bvh [output.glb|.gltf|.vmd|.bvh|.png|.bmp|.tga|.webp]\n", os.Args[0])
		flag.PrintDefaults()
	}
	confPath := flag.String("config", "", "converter config (.yaml)")
	scale := flag.Float64("scale", 0, "0: from config or 1")
	fps := flag.Float64("fps", 0, "frame rate of .vmd output. 0: from config or 30")
	frame := flag.Int("frame", 0, "frame for -dump and image output")
	side := flag.Bool("side", false, "side view (image output)")
	size := flag.Int("size", 512, "image size")
	dump := flag.Bool("dump", false, "print global joint positions at -frame")
	jointName := flag.String("joint", "", "joint name for -dump")
	info := flag.Bool("info", false, "print document summary")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)

	doc, err := bvh.Load(input)
	if err != nil {
		log.Fatal(err)
	}

	if *info {
		printInfo(os.Stdout, doc)
	}
	if *dump {
		if err := dumpPositions(os.Stdout, doc, *frame, *jointName); err != nil {
			log.Fatal(err)
		}
	}
	if (*info || *dump) && flag.NArg() < 2 {
		return
	}

	output := flag.Arg(1)
	if output == "" {
		output = defaultOutputFile(input)
	}

	conf := &converter.Config{}
	if confFile := findConfig(input, output, *confPath); confFile != "" {
		log.Print("config: ", confFile)
		conf, err = converter.LoadConfig(confFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *scale != 0 {
		conf.Scale = float32(*scale)
	}
	if *fps != 0 {
		conf.FPS = float32(*fps)
	}

	log.Print("out: ", output)
	opt := &saveOption{frame: *frame, side: *side, size: *size}
	if err = saveDocument(doc, output, conf, opt); err != nil {
		log.Fatal(err)
	}
}

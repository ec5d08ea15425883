package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/valente/nes/nes"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: nesdis [flags] rom.nes\n")
	flag.PrintDefaults()
}

func main() {
	start := flag.Uint("start", 0x8000, "first address to disassemble")
	end := flag.Uint("end", 0xFFFF, "last address to disassemble")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), uint16(*start), uint16(*end)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, start, end uint16) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open rom: %w", err)
	}
	defer f.Close()

	cart, err := nes.LoadINES(f)
	if err != nil {
		return err
	}

	fmt.Printf("mapper: %d, mirroring: %v\n\n", cart.MapperID(), cart.Mirror())

	read := func(addr uint16) byte {
		if v, ok := cart.CPURead(addr); ok {
			return v
		}
		return 0
	}

	for _, line := range nes.Disassemble(read, start, end) {
		fmt.Println(line.Text)
	}

	return nil
}

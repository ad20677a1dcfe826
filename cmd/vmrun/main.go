// Command vmrun loads a bytecode file and either disassembles it or runs it
// to completion on the virtual machine.
package main

import (
	"flag"
	"fmt"
	"os"

	"vmcore/pkg/disasm"
	"vmcore/pkg/loader"
	"vmcore/pkg/vm"
)

func main() {
	verbose := flag.Bool("v", false, "verbose instruction trace on stderr")
	stackSize := flag.Int("stack-size", 65536, "memory size in bytes")
	videoSize := flag.Int("video-size", 0, "video memory size in bytes")
	disassemble := flag.Bool("disasm", false, "print a disassembly of the file instead of running it")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: vmrun [-v] [-stack-size N] [-video-size N] [-disasm] <bytecode-file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	code, err := loader.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vmrun: %v\n", err)
		os.Exit(1)
	}

	if *disassemble {
		text, err := disasm.Disassemble(code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "vmrun: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(text)
		return
	}

	machine := vm.NewVM(*stackSize, *videoSize)
	exitCode, err := machine.Execute(code, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vmrun: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Program exited with code: %d\n", exitCode)
	os.Exit(0)
}

package usdz

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
)

const (
	inputPlaceholder  = "{input}"
	outputPlaceholder = "{output}"
)

// blenderScript imports the USD stage given after "--" and exports it as STL
const blenderScript = "import bpy,sys;" +
	"a=sys.argv[sys.argv.index('--')+1:];" +
	"bpy.ops.wm.read_factory_settings(use_empty=True);" +
	"bpy.ops.wm.usd_import(filepath=a[0]);" +
	"bpy.ops.wm.stl_export(filepath=a[1])"

// DefaultCommand converts with a headless Blender
var DefaultCommand = []string{
	"blender", "--background", "--factory-startup",
	"--python-expr", blenderScript,
	"--", inputPlaceholder, outputPlaceholder,
}

// Converter turns USDZ packages into STL files by running an external tool.
// Command is an argv template where {input} and {output} are substituted.
type Converter struct {
	Command []string
	workDir string
}

// NewConverter creates a converter running command in workDir.
// An empty command selects DefaultCommand.
func NewConverter(workDir string, command []string) *Converter {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &Converter{
		Command: command,
		workDir: workDir,
	}
}

// ParseCommand splits a shell style command line such as
// `usdcat {input} -o "{output}"` into an argv template
func ParseCommand(line string) ([]string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("failed to parse converter command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("converter command is empty")
	}
	for _, p := range []string{inputPlaceholder, outputPlaceholder} {
		if !strings.Contains(line, p) {
			return nil, fmt.Errorf("converter command needs a %s placeholder", p)
		}
	}
	return args, nil
}

// Args expands the command template for the given files
func (c *Converter) Args(input, output string) []string {
	args := make([]string, len(c.Command))
	for i, arg := range c.Command {
		arg = strings.ReplaceAll(arg, inputPlaceholder, input)
		args[i] = strings.ReplaceAll(arg, outputPlaceholder, output)
	}
	return args
}

// ConvertToSTL converts usdzFile into outputFile
func (c *Converter) ConvertToSTL(ctx context.Context, usdzFile, outputFile string) error {
	absInput := usdzFile
	if !filepath.IsAbs(usdzFile) {
		absInput = filepath.Join(c.workDir, usdzFile)
	}

	if err := CheckFile(absInput); err != nil {
		return err
	}

	args := c.Args(absInput, outputFile)
	if _, err := exec.LookPath(args[0]); err != nil {
		return fmt.Errorf("%s not found in PATH, configure usdz.converter to point at a USD to STL tool", args[0])
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = c.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var errMsg strings.Builder
		errMsg.WriteString(fmt.Sprintf("failed to convert %s: %v\n", usdzFile, err))
		if stderr.Len() > 0 {
			errMsg.WriteString("stderr: ")
			errMsg.WriteString(stderr.String())
		}
		if stdout.Len() > 0 {
			errMsg.WriteString("stdout: ")
			errMsg.WriteString(stdout.String())
		}
		return fmt.Errorf("%s", errMsg.String())
	}

	if _, err := os.Stat(outputFile); err != nil {
		return fmt.Errorf("converter produced no output: %w", err)
	}

	return nil
}

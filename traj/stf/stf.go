package stf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	sketch "github.com/rmera/molsketch"
	v3 "github.com/rmera/molsketch/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

//DefaultPrec is the precision used when the header doesn't give one.
//Two decimals are plenty for an editor.
const DefaultPrec = 2

//Write!
type StfW struct {
	f         io.Closer //the file, if we opened it
	h         *zstd.Encoder
	natoms    int
	filename  string
	writeable bool
	started   bool
	header    map[string]string
	prec      int
	frames    int
}

//NewWriter returns a writer compressing a trajectory into w. The header
//is written with the first frame, since the atom count is needed for it.
//If header contains a "prec" key, it must be a positive integer.
func NewWriter(w io.Writer, header map[string]string) (*StfW, error) {
	S := &StfW{filename: "<stream>", prec: DefaultPrec, header: make(map[string]string)}
	for k, v := range header {
		S.header[k] = v
	}
	if p, ok := S.header["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec < 1 {
			return nil, &Error{fmt.Sprintf("Invalid precision %q", p), S.filename, []string{"NewWriter"}, true}
		}
		S.prec = prec
	}
	S.header["prec"] = strconv.Itoa(S.prec)
	var err error
	S.h, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, &Error{"Can't start compressor " + err.Error(), S.filename, []string{"NewWriter"}, true}
	}
	S.writeable = true
	return S, nil
}

//Create creates the file name and returns a writer for it.
func Create(name string, header map[string]string) (*StfW, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, &Error{UnableToOpen + ": " + err.Error(), name, []string{"Create"}, true}
	}
	S, err := NewWriter(f, header)
	if err != nil {
		f.Close()
		if e, ok := err.(*Error); ok {
			e.filename = name
		}
		return nil, errDecorate(err, "Create")
	}
	S.f = f
	S.filename = name
	return S, nil
}

//Len returns the number of atoms in the last frame written.
func (S *StfW) Len() int {
	return S.natoms
}

//Frames returns the number of frames written.
func (S *StfW) Frames() int {
	return S.frames
}

func (S *StfW) writeHeader(natoms int) error {
	keys := make([]string, 0, len(S.header))
	for k := range S.header {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, S.header[k])
	}
	fmt.Fprintf(&b, "** %d\n", natoms)
	_, err := io.WriteString(S.h, b.String())
	S.started = true
	S.natoms = natoms
	return err
}

//WNext writes coord as the next frame.
func (S *StfW) WNext(coord *v3.Matrix) error {
	if !S.writeable {
		return &Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if coord == nil {
		return &Error{NilCoordinates, S.filename, []string{"WNext"}, true}
	}
	v := coord.NVecs()
	var err error
	if !S.started {
		err = S.writeHeader(v)
	} else if v != S.natoms {
		_, err = fmt.Fprintf(S.h, "** %d\n", v)
		S.natoms = v
	}
	if err != nil {
		return &Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	var temp [3]int
	var b strings.Builder
	for i := 0; i < v; i++ {
		b.WriteString(coordsEncode(coord.Vec(i), temp, S.prec))
	}
	b.WriteString("*\n")
	if _, err := io.WriteString(S.h, b.String()); err != nil {
		return &Error{err.Error(), S.filename, []string{"WNext"}, true}
	}
	S.frames++
	return nil
}

//Draw records the atom positions of f as a frame, so a writer can be
//used as a renderer.
func (S *StfW) Draw(f *sketch.Frame) error {
	coord := v3.Zeros(len(f.Atoms))
	for i, a := range f.Atoms {
		coord.SetVec(i, a.Pos)
	}
	return errDecorate(S.WNext(coord), "Draw")
}

//Highlight does nothing, highlights are not recorded.
func (S *StfW) Highlight(int, bool) {}

//Detach does nothing, bonds are not recorded.
func (S *StfW) Detach(sketch.EntityRef) {}

//Close flushes the compressor and closes the file, if the writer opened
//it. A trajectory with no frames still gets a header.
func (S *StfW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	var err error
	if !S.started {
		err = S.writeHeader(0)
	}
	if err2 := S.h.Close(); err == nil {
		err = err2
	}
	if S.f != nil {
		if err2 := S.f.Close(); err == nil {
			err = err2
		}
	}
	if err != nil {
		return &Error{err.Error(), S.filename, []string{"Close"}, true}
	}
	return nil
}

func coordsEncode(v r3.Vec, temp [3]int, prec int) string {
	p := 100.0
	if prec > 0 && prec != 2 { //2 is the current value, so we do nothign in that case
		p = math.Pow(10.0, float64(prec))
	}
	for i, c := range [3]float64{v.X, v.Y, v.Z} {
		temp[i] = int(math.RoundToEven(c * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := 100.0
	if prec > 0 && prec != 2 { //2 is just the current value, so we can save the operation
		p = math.Pow(10.0, float64(prec))
	}
	s := strings.Fields(str)
	if len(s) < 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: Too few fields: %s", str)
	}
	if len(s) > 3 {
		return fmt.Errorf("Ill formated coordinates line in stf: Too many fields: %s", str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("Can't parse coordinate %d (%s). Error: %s", i, v, err.Error())
		}
		temp[i] = float64(f) / p
	}
	return nil
}

//Read!
type StfR struct {
	f        io.Closer //the file, if we opened it
	dec      *zstd.Decoder
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	readable bool
}

//NewReader reads the header of the trajectory in r and returns a reader
//for it along with the header.
func NewReader(r io.Reader) (*StfR, map[string]string, error) {
	S := &StfR{natoms: -1, prec: DefaultPrec, filename: "<stream>"}
	m, err := S.init(r)
	if err != nil {
		return nil, nil, errDecorate(err, "NewReader")
	}
	return S, m, nil
}

//Open opens the trajectory file name for reading.
func Open(name string) (*StfR, map[string]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, &Error{UnableToOpen + ": " + err.Error(), name, []string{"Open"}, true}
	}
	S := &StfR{natoms: -1, prec: DefaultPrec, filename: name, f: f}
	m, err := S.init(f)
	if err != nil {
		f.Close()
		return nil, nil, errDecorate(err, "Open")
	}
	return S, m, nil
}

func (S *StfR) init(r io.Reader) (map[string]string, error) {
	var err error
	S.dec, err = zstd.NewReader(r)
	if err != nil {
		return nil, &Error{"Can't read header " + err.Error(), S.filename, []string{"init"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			S.dec.Close()
			return nil, &Error{"Can't read header " + err.Error(), S.filename, []string{"init"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			S.natoms, err = parseNatoms(str)
			if err != nil {
				S.dec.Close()
				return nil, &Error{err.Error(), S.filename, []string{"init"}, true}
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			S.dec.Close()
			return nil, &Error{fmt.Sprintf("Malformed header line '%s'", str), S.filename, []string{"init"}, true}
		}
		m[k] = v
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec < 1 {
			S.dec.Close()
			return nil, &Error{fmt.Sprintf("Invalid precision %q", p), S.filename, []string{"init"}, true}
		}
		S.prec = prec
	}
	S.readable = true
	return m, nil
}

func parseNatoms(str string) (int, error) {
	nat := strings.Fields(str)
	if len(nat) < 2 {
		return -1, fmt.Errorf("Can't read atom number from '%s'", str)
	}
	n, err := strconv.Atoi(nat[1])
	if err != nil || n < 0 {
		return -1, fmt.Errorf("Can't read atom number from '%s'", nat[1])
	}
	return n, nil
}

//Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *StfR) Readable() bool {
	return S.readable
}

//Len returns the number of atoms in the last frame read, or in the first
//frame if none has been read.
func (S *StfR) Len() int {
	return S.natoms
}

func (S *StfR) readLine() (string, error) {
	s, err := S.h.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	return strings.TrimSuffix(s, "\n"), err
}

//Next returns the coordinates of the next frame. At the end of the
//trajectory the reader is closed and the error returned is a
//*LastFrameError, which matches io.EOF under errors.Is.
func (S *StfR) Next() (*v3.Matrix, error) {
	if !S.readable {
		return nil, &Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	line, err := S.readLine()
	if err == io.EOF {
		S.Close()
		return nil, newLastFrameError(S.filename, "Next")
	}
	if err != nil {
		return nil, &Error{ReadError + ": " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if strings.HasPrefix(line, "**") {
		if S.natoms, err = parseNatoms(line); err != nil {
			return nil, &Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		if line, err = S.readLine(); err != nil {
			return nil, &Error{ReadError + ": " + err.Error(), S.filename, []string{"Next"}, true}
		}
	}
	data := make([]float64, 0, 3*S.natoms)
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		if i > 0 {
			if line, err = S.readLine(); err != nil {
				return nil, &Error{"Truncated frame: " + err.Error(), S.filename, []string{"Next"}, true}
			}
		}
		if err := coordsDecode(line, &temp, S.prec); err != nil {
			return nil, &Error{err.Error(), S.filename, []string{"Next"}, true}
		}
		data = append(data, temp[:]...)
	}
	if S.natoms > 0 {
		if line, err = S.readLine(); err != nil {
			return nil, &Error{"Can't read the frame termination mark " + err.Error(), S.filename, []string{"Next"}, true}
		}
	}
	if !strings.HasPrefix(line, "*") {
		return nil, &Error{WrongFormat + ": wrong number of atoms in frame", S.filename, []string{"Next"}, true}
	}
	c, err := v3.NewMatrix(data)
	return c, errDecorate(err, "Next")
}

//Close closes the object, and marks it as unreadable
func (S *StfR) Close() {
	if !S.readable {
		return
	}
	S.dec.Close()
	if S.f != nil {
		S.f.Close()
	}
	S.readable = false
}

//Errors

//errDecorate decorates err with the caller's name if err implements
//sketch.Error, and returns it. nil stays nil.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(sketch.Error); ok {
		err2.Decorate(caller)
	}
	return err
}

//Error is the general structure for stf trajectory errors.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

//Decorate Adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file to which the failing trajectory was associated
func (err *Error) FileName() string { return err.filename }

//Format returns the format of the file (always "stf") associated to the error
func (err *Error) Format() string { return "stf" }

//Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the STF file or frame"
)

//LastFrameError marks the normal end of a trajectory.
type LastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing
func (E *LastFrameError) NormalLastFrameTermination() {}

func (E *LastFrameError) FileName() string { return E.fileName }

func (E *LastFrameError) Error() string { return "EOF" }

func (E *LastFrameError) Critical() bool { return false }

func (E *LastFrameError) Format() string { return "stf" }

//Is makes errors.Is(err, io.EOF) true for the end of a trajectory.
func (E *LastFrameError) Is(target error) bool { return target == io.EOF }

func (E *LastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastFrameError(filename string, caller string) *LastFrameError {
	return &LastFrameError{fileName: filename, deco: []string{caller}}
}

var (
	_ sketch.TrajError      = (*Error)(nil)
	_ sketch.LastFrameError = (*LastFrameError)(nil)
)

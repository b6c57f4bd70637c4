package bytecode

import (
	"fmt"
	"math"

	"github.com/jsengine/jsengine/internal/object"
)

// Closure is a runtime function value: a compiled FuncProto bound to the
// scope it closed over (its defining frame's locals, chained like a
// lexical environment) plus, for OpCall, the `this` it should bind when
// invoked as a plain call rather than a method call. Obj backs the
// function's own properties (`.prototype`, `.name`, `.length`, and any
// script-assigned ones) so `function Foo(){}; Foo.prototype.bar = 1` and
// `new Foo()` work the same way they do for native constructors.
type Closure struct {
	Proto *FuncProto
	Outer *Frame // the frame active when the closure literal was evaluated
	Obj   *object.Object
}

// instancePrototype returns the object new-expressions should link a fresh
// instance's Proto to, i.e. Closure.Obj's own "prototype" property.
func (c *Closure) instancePrototype() *object.Object {
	if c.Obj == nil {
		return nil
	}
	v, ok := c.Obj.Get("prototype")
	if !ok {
		return nil
	}
	p, _ := v.(*object.Object)
	return p
}

func (c *Closure) valueNode()      {}
func (c *Closure) TypeOf() string  { return "function" }
func (c *Closure) String() string  { return "function " + c.Proto.Name + "() { [bytecode] }" }

// Frame is one activation record on the VM's call stack.
type Frame struct {
	chunk  *Chunk
	locals []object.Value
	outer  *Frame
	this   object.Value
	ip     int
}

func (f *Frame) getLocal(slot int) object.Value {
	if slot < len(f.locals) {
		return f.locals[slot]
	}
	return object.Undefined
}

func (f *Frame) setLocal(slot int, v object.Value) {
	for slot >= len(f.locals) {
		f.locals = append(f.locals, object.Undefined)
	}
	f.locals[slot] = v
}

type handler struct {
	target     int
	stackDepth int
	frameDepth int
}

// ThrownError wraps a script-level thrown value (which need not be an
// Error instance — JS permits `throw 42`) so Go's error-propagation idiom
// still carries it out of VM.Run.
type ThrownError struct {
	Value object.Value
}

func (e *ThrownError) Error() string {
	return fmt.Sprintf("uncaught exception: %s", object.ToString(e.Value))
}

// VM executes compiled chunks against a single global object.
type VM struct {
	Global *object.Object
	stack  []object.Value
	frames []*Frame
}

// NewVM creates a VM bound to global, the object script-visible `var`
// declarations and top-level function declarations are installed onto.
func NewVM(global *object.Object) *VM {
	return &VM{Global: global}
}

// prototypeOf looks up ctorName on the global object and returns its
// "prototype" property, or nil if the constructor isn't installed (e.g. a
// sealed or stripped-down global). Literal construction falls back to an
// unlinked object rather than failing outright.
func (vm *VM) prototypeOf(ctorName string) *object.Object {
	ctorVal, ok := vm.Global.Get(ctorName)
	if !ok {
		return nil
	}
	ctor, ok := ctorVal.(*object.Object)
	if !ok {
		return nil
	}
	protoVal, ok := ctor.Get("prototype")
	if !ok {
		return nil
	}
	proto, _ := protoVal.(*object.Object)
	return proto
}

func (vm *VM) push(v object.Value) { vm.stack = append(vm.stack, v) }
func (vm *VM) pop() object.Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}
func (vm *VM) peek() object.Value { return vm.stack[len(vm.stack)-1] }

// Run executes chunk as the top-level program, returning the completion
// value of its final expression statement (undefined if none).
func (vm *VM) Run(chunk *Chunk) (object.Value, error) {
	frame := &Frame{chunk: chunk, locals: make([]object.Value, chunk.NumLocals), this: object.Undefined}
	return vm.runFrame(frame)
}

func (vm *VM) runFrame(frame *Frame) (result object.Value, err error) {
	vm.frames = append(vm.frames, frame)
	defer func() { vm.frames = vm.frames[:len(vm.frames)-1] }()

	var handlers []handler

	for {
		if frame.ip >= len(frame.chunk.Code) {
			return object.Undefined, nil
		}
		word := frame.chunk.Code[frame.ip]
		op, a, b := Decode(word)
		frame.ip++

		switch op {
		case OpLoadConst:
			vm.push(constToValue(frame.chunk.Constants[b]))
		case OpLoadUndefined:
			vm.push(object.Undefined)
		case OpLoadNull:
			vm.push(object.Null)
		case OpLoadTrue:
			vm.push(object.Bool(true))
		case OpLoadFalse:
			vm.push(object.Bool(false))
		case OpLoadThis:
			vm.push(frame.this)

		case OpGetLocal:
			vm.push(frame.getLocal(int(b)))
		case OpSetLocal:
			frame.setLocal(int(b), vm.peek())
		case OpDefineLocal:
			frame.setLocal(int(b), vm.pop())

		case OpGetGlobal:
			name := frame.chunk.Names[b]
			v, ok := vm.Global.Get(name)
			if !ok {
				if e := vm.throwRuntime(frame, &handlers, fmt.Sprintf("%s is not defined", name)); e != nil {
					return object.Undefined, e
				}
				continue
			}
			vm.push(v)
		case OpSetGlobal:
			vm.Global.Put(frame.chunk.Names[b], vm.peek())
		case OpDefineGlobal:
			vm.Global.DefineOwnProperty(frame.chunk.Names[b], vm.pop(), object.EMPTY)

		case OpPop:
			vm.pop()
		case OpDup:
			vm.push(vm.peek())

		case OpJump:
			frame.ip = int(b)
		case OpJumpIfFalse:
			if !object.ToBoolean(vm.peek()) {
				frame.ip = int(b)
			}
		case OpJumpIfTrue:
			if object.ToBoolean(vm.peek()) {
				frame.ip = int(b)
			}

		case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow,
			OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr, OpUShr,
			OpEq, OpNotEq, OpStrictEq, OpStrictNotEq, OpLt, OpLe, OpGt, OpGe,
			OpInstanceOf, OpIn:
			right := vm.pop()
			left := vm.pop()
			res, rerr := binaryOp(op, left, right)
			if rerr != nil {
				if e := vm.throwRuntime(frame, &handlers, rerr.Error()); e != nil {
					return object.Undefined, e
				}
				continue
			}
			vm.push(res)

		case OpNeg:
			vm.push(object.Number(-float64(object.ToNumber(vm.pop()))))
		case OpNot:
			vm.push(object.Bool(!object.ToBoolean(vm.pop())))
		case OpBitNot:
			vm.push(object.Number(float64(^toInt32(object.ToNumber(vm.pop())))))
		case OpTypeof:
			vm.push(object.String(vm.pop().TypeOf()))

		case OpNewArray:
			n := int(b)
			elems := make([]object.Value, n)
			for i := n - 1; i >= 0; i-- {
				elems[i] = vm.pop()
			}
			arr := object.NewObject(vm.prototypeOf("Array"))
			arr.Class = object.ClassArray
			arr.Elements = elems
			vm.push(arr)
		case OpNewObject:
			n := int(b)
			o := object.NewObject(vm.prototypeOf("Object"))
			pairs := make([]object.Value, 2*n)
			for i := 2*n - 1; i >= 0; i-- {
				pairs[i] = vm.pop()
			}
			for i := 0; i < n; i++ {
				key := object.ToString(pairs[2*i])
				o.DefineOwnProperty(key, pairs[2*i+1], object.EMPTY)
			}
			vm.push(o)

		case OpGetProp:
			name := frame.chunk.Names[b]
			obj := vm.pop()
			vm.push(getMember(obj, name))
		case OpSetProp:
			name := frame.chunk.Names[b]
			val := vm.pop()
			obj := vm.pop()
			switch o := obj.(type) {
			case *object.Object:
				o.Put(name, val)
			case *Closure:
				if o.Obj != nil {
					o.Obj.Put(name, val)
				}
			}
			vm.push(val)
		case OpGetIndex:
			idx := vm.pop()
			obj := vm.pop()
			vm.push(getIndexed(obj, idx))
		case OpSetIndex:
			val := vm.pop()
			idx := vm.pop()
			obj := vm.pop()
			setIndexed(obj, idx, val)
			vm.push(val)

		case OpMakeFunction:
			proto := frame.chunk.Constants[b].(*FuncProto)
			cl := &Closure{Proto: proto, Outer: frame}
			cl.Obj = object.NewObject(vm.prototypeOf("Function"))
			cl.Obj.Class = object.ClassFunction
			instProto := object.NewObject(vm.prototypeOf("Object"))
			instProto.DefineOwnProperty("constructor", cl, object.DONTENUM)
			cl.Obj.DefineOwnProperty("prototype", instProto, object.DONTENUM)
			cl.Obj.DefineOwnProperty("name", object.String(proto.Name), object.READONLY|object.DONTENUM|object.PERMANENT)
			cl.Obj.DefineOwnProperty("length", object.Number(float64(len(proto.Params))), object.READONLY|object.DONTENUM|object.PERMANENT)
			vm.push(cl)

		case OpCall, OpNew, OpCallMethod:
			argc := int(a)
			args := make([]object.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = vm.pop()
			}
			callee := vm.pop()
			var receiver object.Value
			if op == OpCallMethod {
				receiver = vm.pop()
			}
			var v object.Value
			var cerr error
			if op == OpCallMethod {
				v, cerr = vm.invokeMethod(callee, receiver, args)
			} else {
				v, cerr = vm.invoke(callee, args, op == OpNew)
			}
			if cerr != nil {
				if te, ok := cerr.(*ThrownError); ok {
					if e := vm.dispatchThrow(frame, &handlers, te.Value); e != nil {
						return object.Undefined, e
					}
					continue
				}
				if e := vm.throwRuntime(frame, &handlers, cerr.Error()); e != nil {
					return object.Undefined, e
				}
				continue
			}
			vm.push(v)

		case OpReturn:
			return vm.pop(), nil

		case OpThrow:
			v := vm.pop()
			if e := vm.dispatchThrow(frame, &handlers, v); e != nil {
				return object.Undefined, e
			}

		case OpPushHandler:
			handlers = append(handlers, handler{target: int(b), stackDepth: len(vm.stack), frameDepth: len(vm.frames)})
		case OpPopHandler:
			handlers = handlers[:len(handlers)-1]

		default:
			return object.Undefined, fmt.Errorf("bytecode: unimplemented opcode %d", op)
		}
	}
}

// dispatchThrow unwinds to the nearest handler in this frame, pushing the
// thrown value for the compiled catch prologue to bind, or returns a
// *ThrownError for the caller to propagate if none remains.
func (vm *VM) dispatchThrow(frame *Frame, handlers *[]handler, value object.Value) error {
	if len(*handlers) == 0 {
		return &ThrownError{Value: value}
	}
	h := (*handlers)[len(*handlers)-1]
	*handlers = (*handlers)[:len(*handlers)-1]
	vm.stack = vm.stack[:h.stackDepth]
	vm.push(value)
	frame.ip = h.target
	return nil
}

func (vm *VM) throwRuntime(frame *Frame, handlers *[]handler, msg string) error {
	errObj := object.NewObject(vm.prototypeOf("Error"))
	errObj.Class = object.ClassError
	errObj.DefineOwnProperty("message", object.String(msg), object.EMPTY)
	errObj.DefineOwnProperty("name", object.String("Error"), object.EMPTY)
	return vm.dispatchThrow(frame, handlers, errObj)
}

// invoke calls callee (a *Closure or a native *object.Object function)
// with args. isNew requests `new`-style construction: a fresh object
// becomes `this`, and is returned in place of the callee's result unless
// the callee itself returns an object.
func (vm *VM) invoke(callee object.Value, args []object.Value, isNew bool) (object.Value, error) {
	switch fn := callee.(type) {
	case *Closure:
		var this object.Value = object.Undefined
		var newObj *object.Object
		if isNew {
			newObj = object.NewObject(fn.instancePrototype())
			this = newObj
		}
		frame := &Frame{chunk: fn.Proto.Chunk, locals: make([]object.Value, fn.Proto.Chunk.NumLocals), outer: fn.Outer, this: this}
		for i, p := range fn.Proto.Params {
			if i < len(args) {
				frame.setLocal(i, args[i])
			} else {
				_ = p
				frame.setLocal(i, object.Undefined)
			}
		}
		result, err := vm.runFrame(frame)
		if err != nil {
			return object.Undefined, err
		}
		if isNew {
			if o, ok := result.(*object.Object); ok {
				return o, nil
			}
			return newObj, nil
		}
		return result, nil
	case *object.Object:
		if fn.Call == nil {
			return object.Undefined, fmt.Errorf("value is not callable")
		}
		var this object.Value = object.Undefined
		if isNew {
			this = object.NewObject(fn)
		}
		v, err := fn.Call(this, args)
		if err != nil {
			return object.Undefined, err
		}
		if isNew {
			if o, ok := v.(*object.Object); ok {
				return o, nil
			}
			return this, nil
		}
		return v, nil
	default:
		return object.Undefined, fmt.Errorf("value is not a function")
	}
}

// invokeMethod calls callee with this explicitly bound to receiver, the
// `a.b(...)` dispatch path: unlike invoke's `new` case, it never fabricates
// its own `this`.
func (vm *VM) invokeMethod(callee object.Value, receiver object.Value, args []object.Value) (object.Value, error) {
	switch fn := callee.(type) {
	case *Closure:
		frame := &Frame{chunk: fn.Proto.Chunk, locals: make([]object.Value, fn.Proto.Chunk.NumLocals), outer: fn.Outer, this: receiver}
		for i := range fn.Proto.Params {
			if i < len(args) {
				frame.setLocal(i, args[i])
			} else {
				frame.setLocal(i, object.Undefined)
			}
		}
		return vm.runFrame(frame)
	case *object.Object:
		if fn.Call == nil {
			return object.Undefined, fmt.Errorf("value is not callable")
		}
		return fn.Call(receiver, args)
	default:
		return object.Undefined, fmt.Errorf("value is not a function")
	}
}

func constToValue(c any) object.Value {
	switch v := c.(type) {
	case float64:
		return object.Number(v)
	case string:
		return object.String(v)
	case bool:
		return object.Bool(v)
	default:
		return object.Undefined
	}
}

func getMember(obj object.Value, name string) object.Value {
	switch o := obj.(type) {
	case *object.Object:
		if o.Class == object.ClassArray && name == "length" {
			return object.Number(float64(len(o.Elements)))
		}
		v, _ := o.Get(name)
		return v
	case *Closure:
		if o.Obj != nil {
			v, _ := o.Obj.Get(name)
			return v
		}
	case object.String:
		if name == "length" {
			return object.Number(float64(len(o)))
		}
	}
	return object.Undefined
}

func getIndexed(obj, idx object.Value) object.Value {
	if o, ok := obj.(*object.Object); ok && o.Class == object.ClassArray {
		i := int(object.ToNumber(idx))
		if i >= 0 && i < len(o.Elements) {
			return o.Elements[i]
		}
		return object.Undefined
	}
	if s, ok := obj.(object.String); ok {
		i := int(object.ToNumber(idx))
		r := []rune(string(s))
		if i >= 0 && i < len(r) {
			return object.String(r[i])
		}
		return object.Undefined
	}
	if o, ok := obj.(*object.Object); ok {
		v, _ := o.Get(object.ToString(idx))
		return v
	}
	return object.Undefined
}

func setIndexed(obj, idx, val object.Value) {
	if o, ok := obj.(*object.Object); ok {
		if o.Class == object.ClassArray {
			i := int(object.ToNumber(idx))
			for i >= len(o.Elements) {
				o.Elements = append(o.Elements, object.Undefined)
			}
			if i >= 0 {
				o.Elements[i] = val
			}
			return
		}
		o.Put(object.ToString(idx), val)
	}
}

func toInt32(n object.Number) int32 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}

// Copyright © Microsoft <wastore@microsoft.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package taskengine

import (
	"reflect"
	"strings"

	"github.com/JeffreyRichter/enum/enum"
)

// Operation is one of the five task kinds the engine dispatches on.
type Operation uint8

const (
	OpIndex Operation = iota
	OpList
	OpPut
	OpGet
	OpDel
)

var EOperation = Operation(OpIndex)

func (Operation) Index() Operation { return OpIndex }
func (Operation) List() Operation  { return OpList }
func (Operation) Put() Operation   { return OpPut }
func (Operation) Get() Operation   { return OpGet }
func (Operation) Del() Operation   { return OpDel }

func (o *Operation) Parse(s string) error {
	val, err := enum.ParseInt(reflect.TypeOf(o), s, true, true)
	if err == nil {
		*o = val.(Operation)
	}
	return err
}

func (o Operation) String() string {
	switch o {
	case EOperation.Index():
		return "index"
	case EOperation.List():
		return "list"
	case EOperation.Put():
		return "put"
	case EOperation.Get():
		return "get"
	case EOperation.Del():
		return "del"
	default:
		return enum.StringInt(o, reflect.TypeOf(o))
	}
}

// ClientLib discriminates the two object-store backend shapes described
// in spec.md §4.A. It is consumed only by the backend factory (see
// internal/objectstore); once a Store is constructed, executors never
// branch on it again, per the §9 design note that the discriminator
// should be eliminated from the operation path.
type ClientLib uint8

const (
	ClientLibMinio ClientLib = iota
	ClientLibDSS
)

var EClientLib = ClientLib(ClientLibMinio)

func (ClientLib) Minio() ClientLib { return ClientLibMinio }
func (ClientLib) DSS() ClientLib   { return ClientLibDSS }

func (c *ClientLib) Parse(s string) error {
	if strings.EqualFold(s, "dss_client") {
		*c = ClientLibDSS
		return nil
	}
	val, err := enum.ParseInt(reflect.TypeOf(c), s, true, true)
	if err == nil {
		*c = val.(ClientLib)
	}
	return err
}

func (c ClientLib) String() string {
	switch c {
	case EClientLib.Minio():
		return "minio"
	case EClientLib.DSS():
		return "dss_client"
	default:
		return enum.StringInt(c, reflect.TypeOf(c))
	}
}

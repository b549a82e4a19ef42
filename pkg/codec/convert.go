// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package codec

import (
	"github.com/buildtools/incore/pkg/api"
	"github.com/buildtools/incore/pkg/fstamp"
	"github.com/buildtools/incore/pkg/relation"
)

func toPayload(a api.Analysis, m WriteMapper) analysisPayload {
	stamps := mapStamps(a.Stamps, m.SourceFile, m.BinaryFile, m.ProductFile, m.SourceStamp, m.BinaryStamp, m.ProductStamp)

	names := make(map[string]map[string]relationUsedNameGob, len(a.Relations.Names))
	for class, byName := range a.Relations.Names {
		out := make(map[string]relationUsedNameGob, len(byName))

		for name, un := range byName {
			scopes := make([]uint8, 0, len(un.Scopes))
			for s := range un.Scopes {
				scopes = append(scopes, uint8(s))
			}

			out[name] = relationUsedNameGob{Name: un.Name, Scopes: scopes}
		}

		names[class] = out
	}

	sourceInfos := make(map[fstamp.File]api.SourceInfo, len(a.SourceInfos))
	for f, si := range a.SourceInfos {
		sourceInfos[m.SourceFile(f)] = si
	}

	return analysisPayload{
		Sources:      stamps.Sources,
		Products:     stamps.Products,
		Binaries:     stamps.Binaries,
		SrcProd:      mapForwardFileFile(a.Relations.SrcProd, m.SourceFile, m.ProductFile),
		LibraryDep:   mapForwardFileFile(a.Relations.LibraryDep, m.SourceFile, m.BinaryFile),
		LibClassName: mapForwardFileString(a.Relations.LibraryClassName, m.BinaryFile),
		Classes:      mapForwardFileString(a.Relations.Classes, m.SourceFile),
		ProdClsName:  a.Relations.ProductClassName.ForwardMap(),
		MemberInt:    a.Relations.MemberRefInternal.ForwardMap(),
		MemberExt:    a.Relations.MemberRefExternal.ForwardMap(),
		InheritInt:   a.Relations.InheritanceInternal.ForwardMap(),
		InheritExt:   a.Relations.InheritanceExternal.ForwardMap(),
		LocalInt:     a.Relations.LocalInheritanceInternal.ForwardMap(),
		LocalExt:     a.Relations.LocalInheritanceExternal.ForwardMap(),
		Names:        names,
		Internal:     a.APIs.Internal,
		External:     a.APIs.External,
		SourceInfos:  sourceInfos,
		Compilations: a.Compilations,
		Setup:        mapSetup(a.Setup, m.SourceDir, m.OutputDir, m.ClasspathEntry, m.JavacOption, m.ScalacOption),
	}
}

func fromPayload(p analysisPayload, m ReadMapper) (api.Analysis, error) {
	in := newInterner()

	stamps := fstamp.Stamps{
		Sources:  mapStampMap(p.Sources, m.SourceFile, m.SourceStamp),
		Products: mapStampMap(p.Products, m.ProductFile, m.ProductStamp),
		Binaries: mapStampMap(p.Binaries, m.BinaryFile, m.BinaryStamp),
	}

	relations := relation.NewRelations()
	relations.SrcProd.ReconstructFromForward(remapFileFileKeys(p.SrcProd, m.SourceFile, m.ProductFile))
	relations.LibraryDep.ReconstructFromForward(remapFileFileKeys(p.LibraryDep, m.SourceFile, m.BinaryFile))
	relations.LibraryClassName.ReconstructFromForward(remapFileStringKeys(p.LibClassName, m.BinaryFile))
	relations.Classes.ReconstructFromForward(remapFileStringKeys(p.Classes, m.SourceFile))
	relations.ProductClassName.ReconstructFromForward(p.ProdClsName)
	relations.MemberRefInternal.ReconstructFromForward(p.MemberInt)
	relations.MemberRefExternal.ReconstructFromForward(p.MemberExt)
	relations.InheritanceInternal.ReconstructFromForward(p.InheritInt)
	relations.InheritanceExternal.ReconstructFromForward(p.InheritExt)
	relations.LocalInheritanceInternal.ReconstructFromForward(p.LocalInt)
	relations.LocalInheritanceExternal.ReconstructFromForward(p.LocalExt)

	for class, byName := range p.Names {
		for name, un := range byName {
			scopes := make([]relation.UseScope, len(un.Scopes))
			for i, s := range un.Scopes {
				scopes[i] = relation.UseScope(s)
			}

			relations.AddUsedName(in.intern(class), in.intern(name), scopes...)
		}
	}

	apis := api.APIs{Internal: p.Internal, External: p.External}
	internAPIs(in, &apis)

	sourceInfos := make(map[fstamp.File]api.SourceInfo, len(p.SourceInfos))
	for f, si := range p.SourceInfos {
		sourceInfos[m.SourceFile(f)] = si
	}

	return api.Analysis{
		Stamps:       stamps,
		Relations:    relations,
		APIs:         apis,
		SourceInfos:  sourceInfos,
		Compilations: p.Compilations,
		Setup:        mapSetup(p.Setup, m.SourceDir, m.OutputDir, m.ClasspathEntry, m.JavacOption, m.ScalacOption),
	}, nil
}

func mapForwardFileFile(r *relation.Relation[fstamp.File, fstamp.File], mapA, mapB func(fstamp.File) fstamp.File) map[fstamp.File][]fstamp.File {
	out := make(map[fstamp.File][]fstamp.File)

	for a, bs := range r.ForwardMap() {
		mapped := make([]fstamp.File, len(bs))
		for i, b := range bs {
			mapped[i] = mapB(b)
		}

		out[mapA(a)] = mapped
	}

	return out
}

func mapForwardFileString(r *relation.Relation[fstamp.File, string], mapA func(fstamp.File) fstamp.File) map[fstamp.File][]string {
	out := make(map[fstamp.File][]string)

	for a, bs := range r.ForwardMap() {
		out[mapA(a)] = bs
	}

	return out
}

func remapFileFileKeys(m map[fstamp.File][]fstamp.File, mapA, mapB func(fstamp.File) fstamp.File) map[fstamp.File][]fstamp.File {
	out := make(map[fstamp.File][]fstamp.File, len(m))

	for a, bs := range m {
		mapped := make([]fstamp.File, len(bs))
		for i, b := range bs {
			mapped[i] = mapB(b)
		}

		out[mapA(a)] = mapped
	}

	return out
}

func remapFileStringKeys(m map[fstamp.File][]string, mapA func(fstamp.File) fstamp.File) map[fstamp.File][]string {
	out := make(map[fstamp.File][]string, len(m))

	for a, bs := range m {
		out[mapA(a)] = bs
	}

	return out
}

func mapStampMap(m map[fstamp.File]fstamp.Stamp, mapFile func(fstamp.File) fstamp.File, mapStamp func(fstamp.Stamp) fstamp.Stamp) map[fstamp.File]fstamp.Stamp {
	out := make(map[fstamp.File]fstamp.Stamp, len(m))

	for f, s := range m {
		out[mapFile(f)] = mapStamp(s)
	}

	return out
}

package schema

import (
	"github.com/apkforge/manifmerge/internal/xmldom"
	"github.com/apkforge/manifmerge/pkg/manifmerge"
)

func androidName() xmldom.NodeName { return xmldom.Name(xmldom.AndroidURI, "name") }

func def(s string) *string { return &s }

// registry maps element tags in the empty namespace to their merge policy.
// Distribution elements are registered under their namespaced name.
var registry = map[xmldom.NodeName]*NodeKind{}

func register(k *NodeKind) *NodeKind {
	registry[k.Name] = k
	return k
}

// namedKind is the common shape of components keyed by android:name.
func namedKind(tag string) *NodeKind {
	return &NodeKind{
		Name:          xmldom.LocalName(tag),
		MergeType:     MergeTypeMerge,
		KeyAttributes: []xmldom.NodeName{androidName()},
	}
}

var (
	KindManifest = register(&NodeKind{
		Name:      xmldom.LocalName("manifest"),
		MergeType: MergeTypeMergeChildrenOnly,
		Attributes: []AttributeModel{
			{Name: xmldom.LocalName("package")},
			{Name: xmldom.Name(xmldom.AndroidURI, "versionCode")},
			{Name: xmldom.Name(xmldom.AndroidURI, "versionName")},
		},
	})

	KindApplication = register(&NodeKind{
		Name:      xmldom.LocalName("application"),
		MergeType: MergeTypeMerge,
		Attributes: []AttributeModel{
			{Name: androidName()},
			{Name: xmldom.Name(xmldom.AndroidURI, "debuggable"), DefaultValue: def("false")},
			{Name: xmldom.Name(xmldom.AndroidURI, "hasCode"), DefaultValue: def("true")},
			{Name: xmldom.Name(xmldom.AndroidURI, "allowBackup"), DefaultValue: def("true")},
		},
	})

	KindActivity      = register(namedKind("activity"))
	KindActivityAlias = register(namedKind("activity-alias"))
	KindService       = register(namedKind("service"))
	KindReceiver      = register(namedKind("receiver"))
	KindProvider      = register(namedKind("provider"))

	KindUsesPermission = register(&NodeKind{
		Name:          xmldom.LocalName("uses-permission"),
		MergeType:     MergeTypeMerge,
		KeyAttributes: []xmldom.NodeName{androidName()},
		Attributes: []AttributeModel{
			{Name: xmldom.Name(xmldom.AndroidURI, "maxSdkVersion")},
		},
	})
	KindUsesPermissionSdk23 = register(namedKind("uses-permission-sdk-23"))
	KindPermission          = register(namedKind("permission"))
	KindPermissionGroup     = register(namedKind("permission-group"))
	KindPermissionTree      = register(namedKind("permission-tree"))

	KindUsesFeature = register(&NodeKind{
		Name:      xmldom.LocalName("uses-feature"),
		MergeType: MergeTypeMerge,
		KeyAttributes: []xmldom.NodeName{
			androidName(),
			xmldom.Name(xmldom.AndroidURI, "glEsVersion"),
		},
		Attributes: []AttributeModel{
			{Name: xmldom.Name(xmldom.AndroidURI, "required"), DefaultValue: def("true")},
		},
	})

	KindUsesLibrary = register(&NodeKind{
		Name:          xmldom.LocalName("uses-library"),
		MergeType:     MergeTypeMerge,
		KeyAttributes: []xmldom.NodeName{androidName()},
		Attributes: []AttributeModel{
			{Name: xmldom.Name(xmldom.AndroidURI, "required"), DefaultValue: def("true")},
		},
	})
	KindUsesNativeLibrary = register(&NodeKind{
		Name:          xmldom.LocalName("uses-native-library"),
		MergeType:     MergeTypeMerge,
		KeyAttributes: []xmldom.NodeName{androidName()},
		Attributes: []AttributeModel{
			{Name: xmldom.Name(xmldom.AndroidURI, "required"), DefaultValue: def("true")},
		},
	})

	KindUsesSdk = register(&NodeKind{
		Name:      xmldom.LocalName("uses-sdk"),
		MergeType: MergeTypeMerge,
		Attributes: []AttributeModel{
			{Name: xmldom.Name(xmldom.AndroidURI, "minSdkVersion"), DefaultValue: def("1")},
			{Name: xmldom.Name(xmldom.AndroidURI, "targetSdkVersion")},
			{Name: xmldom.Name(xmldom.AndroidURI, "maxSdkVersion")},
		},
	})

	KindInstrumentation = register(namedKind("instrumentation"))

	KindIntentFilter = register(&NodeKind{
		Name:                 xmldom.LocalName("intent-filter"),
		MergeType:            MergeTypeAlways,
		MultipleDeclarations: true,
	})
	KindAction   = register(namedKind("action"))
	KindCategory = register(namedKind("category"))
	KindData = register(&NodeKind{
		Name:                 xmldom.LocalName("data"),
		MergeType:            MergeTypeAlways,
		MultipleDeclarations: true,
	})

	KindMetaData = register(&NodeKind{
		Name:          xmldom.LocalName("meta-data"),
		MergeType:     MergeTypeMerge,
		KeyAttributes: []xmldom.NodeName{androidName()},
		Attributes: []AttributeModel{
			{Name: xmldom.Name(xmldom.AndroidURI, "value")},
			{Name: xmldom.Name(xmldom.AndroidURI, "resource")},
		},
	})

	KindQueries = register(&NodeKind{
		Name:      xmldom.LocalName("queries"),
		MergeType: MergeTypeMerge,
	})
	KindQueriesPackage = register(namedKind("package"))
	KindQueriesIntent  = register(&NodeKind{
		Name:                 xmldom.LocalName("intent"),
		MergeType:            MergeTypeAlways,
		MultipleDeclarations: true,
	})

	KindGrantURIPermission = register(&NodeKind{
		Name:                 xmldom.LocalName("grant-uri-permission"),
		MergeType:            MergeTypeAlways,
		MultipleDeclarations: true,
	})
	KindPathPermission = register(&NodeKind{
		Name:                 xmldom.LocalName("path-permission"),
		MergeType:            MergeTypeAlways,
		MultipleDeclarations: true,
	})

	KindSupportsScreens = register(&NodeKind{
		Name:      xmldom.LocalName("supports-screens"),
		MergeType: MergeTypeMerge,
	})
	KindCompatibleScreens = register(&NodeKind{
		Name:      xmldom.LocalName("compatible-screens"),
		MergeType: MergeTypeMerge,
	})
	KindScreen            = register(namedKind("screen"))
	KindSupportsGlTexture = register(namedKind("supports-gl-texture"))

	KindUsesConfiguration = register(&NodeKind{
		Name:      xmldom.LocalName("uses-configuration"),
		MergeType: MergeTypeConflict,
	})

	KindProtectedBroadcast = register(&NodeKind{
		Name:          xmldom.LocalName("protected-broadcast"),
		MergeType:     MergeTypeIgnore,
		KeyAttributes: []xmldom.NodeName{androidName()},
	})
	KindOriginalPackage = register(&NodeKind{
		Name:      xmldom.LocalName("original-package"),
		MergeType: MergeTypeIgnore,
	})

	KindProfileable = register(&NodeKind{
		Name:      xmldom.LocalName("profileable"),
		MergeType: MergeTypeMerge,
	})
	KindProperty = register(namedKind("property"))
	KindNavGraph = register(&NodeKind{
		Name:          xmldom.LocalName("nav-graph"),
		MergeType:     MergeTypeMerge,
		KeyAttributes: []xmldom.NodeName{xmldom.Name(xmldom.AndroidURI, "value")},
	})
	KindLayout = register(&NodeKind{
		Name:      xmldom.LocalName("layout"),
		MergeType: MergeTypeMerge,
	})

	KindDistModule = register(&NodeKind{
		Name:      xmldom.Name(xmldom.DistURI, "module"),
		MergeType: MergeTypeMerge,
	})
)

// customKind is the sentinel for elements in namespaces unknown to the
// model. Always merge-type ALWAYS with opaque passthrough semantics.
var customKind = &NodeKind{
	MergeType:            MergeTypeAlways,
	MultipleDeclarations: true,
	Custom:               true,
}

// fallbackKind covers un-namespaced tags absent from the registry. They
// coexist like ALWAYS elements so unknown-but-valid future manifest tags are
// preserved rather than mangled.
var fallbackKind = &NodeKind{
	MergeType:            MergeTypeAlways,
	MultipleDeclarations: true,
}

// KindFor resolves the merge policy for an element name. Elements in
// namespaces the model does not know are Custom.
func KindFor(name xmldom.NodeName) *NodeKind {
	if k, ok := registry[name]; ok {
		return k
	}
	if name.URI != "" && name.URI != xmldom.DistURI {
		return customKind
	}
	return fallbackKind
}

// ContributionPolicy lists (document type, node kind) pairs that may not be
// merged into a higher-priority document. It is data, not code: callers can
// extend or replace the default table.
type ContributionPolicy map[manifmerge.DocumentType]map[xmldom.NodeName]bool

// DefaultContributionPolicy blocks library manifests from forcing SDK
// requirements or app-bundle distribution modules onto the consuming app.
var DefaultContributionPolicy = ContributionPolicy{
	manifmerge.DocumentTypeLibrary: {
		xmldom.LocalName("uses-sdk"):          true,
		xmldom.Name(xmldom.DistURI, "module"): true,
	},
}

// MayContribute reports whether an element of the given kind from a document
// of the given type may be merged into a non-library target.
func (p ContributionPolicy) MayContribute(docType manifmerge.DocumentType, kind *NodeKind) bool {
	blocked, ok := p[docType]
	if !ok {
		return true
	}
	return !blocked[kind.Name]
}
